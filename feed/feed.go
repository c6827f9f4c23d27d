// Package feed is the read side of the store: chronological feed
// composition, user search, inbox listing, and profile views. Everything
// here is a derivation over the repository; nothing is cached.
package feed

import (
	"fmt"
	"sort"
	"strings"

	"chirp/core"
	"chirp/storage"

	"go.uber.org/zap"
)

// Engine derives read-only views from the repository.
type Engine struct {
	repo   storage.SocialReaderInterface
	logger *zap.SugaredLogger
}

// NewEngine creates a feed engine over the given repository view.
func NewEngine(repo storage.SocialReaderInterface, logger *zap.SugaredLogger) *Engine {
	return &Engine{repo: repo, logger: logger}
}

// Compose builds the feed for username: all posts authored by users they
// currently follow, plus their own, newest first. Ties on the creation
// timestamp break by descending post id so the order is deterministic even
// at coarse timestamp resolution. Follows pointing at users that no longer
// resolve are skipped silently. An empty feed is a valid result, not an
// error.
func (e *Engine) Compose(username string) ([]*core.Post, error) {
	u, err := e.repo.GetUser(username)
	if err != nil {
		return nil, err
	}

	posts := make([]*core.Post, 0, len(u.Posts))
	for target := range u.Following {
		other, err := e.repo.GetUser(target)
		if err != nil {
			continue
		}
		posts = append(posts, other.Posts...)
	}
	posts = append(posts, u.Posts...)

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	e.logger.Debugw("feed composed", "username", username, "posts", len(posts))
	return posts, nil
}

// SearchUsers returns users whose username or display name contains term.
// Matching is case-sensitive, exact containment. Results come back ordered
// by username ascending; that order is a documented choice, the match set is
// the contract.
func (e *Engine) SearchUsers(term string) []*core.User {
	var matches []*core.User
	for _, u := range e.repo.Users() {
		if strings.Contains(u.Username, term) || strings.Contains(u.Name, term) {
			matches = append(matches, u)
		}
	}
	return matches
}

// InboxGroup is one sender's bucket of received messages, in receipt order.
type InboxGroup struct {
	Sender   string
	Messages []*core.Message
}

// Inbox lists username's received messages grouped by sender. Groups come
// back ordered by sender username ascending.
func (e *Engine) Inbox(username string) ([]InboxGroup, error) {
	u, err := e.repo.GetUser(username)
	if err != nil {
		return nil, err
	}

	senders := make([]string, 0, len(u.Inbox))
	for sender := range u.Inbox {
		senders = append(senders, sender)
	}
	sort.Strings(senders)

	groups := make([]InboxGroup, 0, len(senders))
	for _, sender := range senders {
		groups = append(groups, InboxGroup{Sender: sender, Messages: u.Inbox[sender]})
	}
	return groups, nil
}

// Profile is a user card with the derived follower count attached.
type Profile struct {
	User      *core.User
	Followers int
}

// Render returns the multi-line profile card.
func (p *Profile) Render() string {
	return fmt.Sprintf("%s (%s)\nBio: %s\nFollowers: %d  Following: %d  Posts: %d",
		p.User.Name, p.User.Username, p.User.Bio,
		p.Followers, len(p.User.Following), len(p.User.Posts))
}

// Profile builds the profile view for username. The follower count is
// recomputed on every call.
func (e *Engine) Profile(username string) (*Profile, error) {
	u, err := e.repo.GetUser(username)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Followers: e.repo.CountFollowers(username)}, nil
}
