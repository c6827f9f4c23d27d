// Package core defines the social-network domain entities (users, posts,
// comments, direct messages) and the rendering rules that belong to them.
//
// Entities are plain records; all relationship bookkeeping (follower counts,
// post indexing, id allocation) lives in the storage package, which owns the
// only authoritative collection of these values.
package core
