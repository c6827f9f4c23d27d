package storage

import "errors"

// Storage error constants
var (
	// ErrDuplicateUsername is returned when registering a username that
	// already exists
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials is returned on authentication failure. It does
	// not distinguish an unknown user from a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user lookup misses
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound is returned when a post lookup misses
	ErrPostNotFound = errors.New("post not found")

	// ErrTargetNotFound is returned when a follow target does not exist
	ErrTargetNotFound = errors.New("follow target not found")

	// ErrSelfFollow is returned when a user attempts to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrNotFollowing is returned when unfollowing a user that is not in
	// the following set
	ErrNotFollowing = errors.New("not following this user")

	// ErrRecipientNotFound is returned when a message recipient does not
	// exist
	ErrRecipientNotFound = errors.New("message recipient not found")

	// ErrSnapshotVersion is returned when a snapshot was written by a
	// newer, unknown schema version
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
)
