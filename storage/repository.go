// Package storage owns the social-network aggregate: every user and post in
// the system, the post-id counter, and the snapshot engine that makes the
// whole aggregate durable as a single file.
package storage

import (
	"sort"
	"sync"

	"chirp/core"

	"go.uber.org/zap"
)

// Repository is the aggregate root. It holds all users keyed by username,
// all posts keyed by id, and the next-id counter for posts.
//
// A single RWMutex serializes mutate-then-persist sequences so the snapshot
// on disk always reflects a consistent in-memory state, even if the
// repository is ever driven by more than one goroutine.
type Repository struct {
	mu         sync.RWMutex
	users      map[string]*core.User
	posts      map[int64]*core.Post
	nextPostID int64

	clock     core.Clock
	persister PersisterInterface
	logger    *zap.SugaredLogger
}

// NewRepository creates an empty repository. A nil persister disables
// durability; use SetPersister (or Open) to attach one.
func NewRepository(clock core.Clock, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		users:      make(map[string]*core.User),
		posts:      make(map[int64]*core.Post),
		nextPostID: 1,
		clock:      clock,
		logger:     logger,
	}
}

// SetPersister attaches the durable store mutations are flushed to.
func (r *Repository) SetPersister(p PersisterInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persister = p
}

// Register creates a user keyed by username. Usernames are compared by
// exact equality; a duplicate yields ErrDuplicateUsername.
func (r *Repository) Register(username, password string) (*core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[username]; exists {
		return nil, ErrDuplicateUsername
	}

	u := core.NewUser(username, password)
	r.users[username] = u
	r.persistLocked()

	r.logger.Infow("user registered", "username", username)
	return u, nil
}

// Authenticate returns the user on an exact username plus secret match.
// Unknown user and wrong password produce the same ErrInvalidCredentials.
func (r *Repository) Authenticate(username, password string) (*core.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[username]
	if !exists || u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser looks a user up by username.
func (r *Repository) GetUser(username string) (*core.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile overwrites the display name and bio unconditionally. No
// validation is applied to either field.
func (r *Repository) UpdateProfile(username, name, bio string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[username]
	if !exists {
		return ErrUserNotFound
	}

	u.Name = name
	u.Bio = bio
	r.persistLocked()
	return nil
}

// CreatePost allocates the next post id and appends the post to both the
// author's sequence and the global index. The text may be empty.
func (r *Repository) CreatePost(username, text string) (*core.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}

	id := r.nextPostID
	r.nextPostID++

	p := core.NewPost(id, username, text, r.clock.Now())
	u.Posts = append(u.Posts, p)
	r.posts[id] = p
	r.persistLocked()

	r.logger.Infow("post created", "id", id, "author", username)
	return p, nil
}

// Follow adds target to the user's following set. Following a nonexistent
// user or yourself is rejected; re-following is a silent no-op.
func (r *Repository) Follow(username, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[username]
	if !exists {
		return ErrUserNotFound
	}
	if _, exists := r.users[target]; !exists {
		return ErrTargetNotFound
	}
	if target == username {
		return ErrSelfFollow
	}

	u.Following[target] = struct{}{}
	r.persistLocked()
	return nil
}

// Unfollow removes target from the user's following set, failing with
// ErrNotFollowing when it was not there.
func (r *Repository) Unfollow(username, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[username]
	if !exists {
		return ErrUserNotFound
	}
	if _, following := u.Following[target]; !following {
		return ErrNotFollowing
	}

	delete(u.Following, target)
	r.persistLocked()
	return nil
}

// LikePost adds username to the post's like set. Idempotent.
func (r *Repository) LikePost(id int64, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.posts[id]
	if !exists {
		return ErrPostNotFound
	}

	p.Like(username)
	r.persistLocked()
	return nil
}

// AddComment appends a comment to the post. Anyone may comment; there is no
// authorization or content check.
func (r *Repository) AddComment(id int64, username, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.posts[id]
	if !exists {
		return ErrPostNotFound
	}

	p.AddComment(core.NewComment(username, text, r.clock.Now()))
	r.persistLocked()
	return nil
}

// SendMessage delivers a direct message into the recipient's inbox bucket
// for the sender. The sender keeps no copy.
func (r *Repository) SendMessage(from, to, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipient, exists := r.users[to]
	if !exists {
		return ErrRecipientNotFound
	}

	recipient.Receive(core.NewMessage(from, to, text, r.clock.Now()))
	r.persistLocked()
	return nil
}

// CountFollowers counts users whose following set contains username. The
// count is derived by a full scan on every call, never cached, so it can
// never go stale across follow/unfollow mutations. O(users) is accepted at
// this scale.
func (r *Repository) CountFollowers(username string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Dangling follow targets are tolerated in following sets but never
	// contribute to derived counts.
	if _, exists := r.users[username]; !exists {
		return 0
	}

	count := 0
	for _, u := range r.users {
		if u.IsFollowing(username) {
			count++
		}
	}
	return count
}

// GetPost looks a post up in the global index.
func (r *Repository) GetPost(id int64) (*core.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.posts[id]
	if !exists {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// Users returns all users ordered by username. Map iteration order is an
// implementation artifact, so the repository exposes one documented order.
func (r *Repository) Users() []*core.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*core.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}

// UserCount reports how many users are registered.
func (r *Repository) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// NextPostID exposes the id counter for inspection.
func (r *Repository) NextPostID() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextPostID
}

// Save flushes the current state through the attached persister. A nil
// persister makes Save a no-op.
func (r *Repository) Save() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.persister == nil {
		return nil
	}
	return r.persister.Save(r.buildSnapshot())
}

// persistLocked flushes the aggregate after a mutation. A failed save is
// reported but does not roll back the mutation: the in-memory state is
// considered authoritative and disk merely trails it until the next
// successful save.
func (r *Repository) persistLocked() {
	if r.persister == nil {
		return
	}
	if err := r.persister.Save(r.buildSnapshot()); err != nil {
		r.logger.Errorw("snapshot save failed, in-memory state is ahead of disk", "error", err)
	}
}
