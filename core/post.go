package core

import "time"

// Post is identified by a globally unique, strictly increasing id assigned
// by the repository at creation time. Ids are never reused, not even across
// restarts. A post is reachable both from its author's Posts sequence and
// from the repository's global index; both refer to the same object.
type Post struct {
	ID        int64
	Author    string
	Text      string
	CreatedAt time.Time

	// Likes is the set of usernames that liked the post. Liking is
	// idempotent.
	Likes map[string]struct{}

	// Comments are append-only; insertion order is display order.
	Comments []*Comment
}

// NewPost creates a post with the given pre-allocated id.
func NewPost(id int64, author, text string, at time.Time) *Post {
	return &Post{
		ID:        id,
		Author:    author,
		Text:      text,
		CreatedAt: at,
		Likes:     make(map[string]struct{}),
	}
}

// Like records that username liked the post. Repeated likes are no-ops.
func (p *Post) Like(username string) {
	p.Likes[username] = struct{}{}
}

// LikedBy reports whether username has liked the post.
func (p *Post) LikedBy(username string) bool {
	_, ok := p.Likes[username]
	return ok
}

// AddComment appends c to the post's comment sequence.
func (p *Post) AddComment(c *Comment) {
	p.Comments = append(p.Comments, c)
}

// Comment belongs to exactly one post. Comments cannot be edited or deleted.
type Comment struct {
	From string
	Text string
	At   time.Time
}

// NewComment creates a comment stamped with the given time.
func NewComment(from, text string, at time.Time) *Comment {
	return &Comment{From: from, Text: text, At: at}
}
