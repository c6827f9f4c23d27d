package core

// User is keyed by username. The username is fixed at registration and
// compared by exact byte equality everywhere; no case normalization happens.
// Users are never deleted.
type User struct {
	Username string
	Password string
	Name     string
	Bio      string

	// Following holds usernames this user follows. A target may have
	// become dangling (never happens today since users are not deleted,
	// but readers tolerate it anyway).
	Following map[string]struct{}

	// Posts is the ordered sequence of posts this user authored. Every
	// entry is the same object the global post index holds.
	Posts []*Post

	// Inbox groups received messages by sender username, each bucket in
	// receipt order. The sender keeps no copy.
	Inbox map[string][]*Message
}

// NewUser creates a freshly registered user. The display name starts out as
// the username and the bio empty, matching what a profile edit overwrites.
func NewUser(username, password string) *User {
	return &User{
		Username:  username,
		Password:  password,
		Name:      username,
		Bio:       "",
		Following: make(map[string]struct{}),
		Inbox:     make(map[string][]*Message),
	}
}

// IsFollowing reports whether the user currently follows username.
func (u *User) IsFollowing(username string) bool {
	_, ok := u.Following[username]
	return ok
}

// Receive appends m to the inbox bucket for its sender.
func (u *User) Receive(m *Message) {
	u.Inbox[m.From] = append(u.Inbox[m.From], m)
}
