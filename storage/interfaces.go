package storage

import "chirp/core"

// SocialReaderInterface is the read-only view of the repository consumed by
// the feed/query engine.
type SocialReaderInterface interface {
	GetUser(username string) (*core.User, error)
	GetPost(id int64) (*core.Post, error)
	Users() []*core.User
	CountFollowers(username string) int
}

// PersisterInterface writes a point-in-time snapshot of the repository to
// durable storage. The repository calls Save synchronously after every
// successful mutation while still holding its write lock, so the snapshot on
// disk is always atomic with respect to the in-memory state.
type PersisterInterface interface {
	Save(snap *Snapshot) error
}
