package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chirp/bootstrap"
	"chirp/core"
	"chirp/storage"
)

// shell drives the interactive menu loop. It owns the session state (which
// user is logged in) and nothing else; all inputs are trimmed here before
// they reach the repository.
type shell struct {
	app *bootstrap.App
	in  *bufio.Reader
	out io.Writer
	eof bool
}

func newShell(app *bootstrap.App, in io.Reader, out io.Writer) *shell {
	return &shell{app: app, in: bufio.NewReader(in), out: out}
}

// prompt prints a label and reads one trimmed line. EOF flips a flag the
// menu loops check so a closed stdin exits cleanly instead of spinning.
func (s *shell) prompt(label string) string {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil {
		s.eof = true
	}
	return strings.TrimSpace(line)
}

func (s *shell) pause() {
	fmt.Fprintln(s.out, "Press Enter to continue...")
	if _, err := s.in.ReadString('\n'); err != nil {
		s.eof = true
	}
}

// run is the outer register/login loop.
func (s *shell) run() error {
	for {
		headerColor.Fprintln(s.out, "\n--- Social Network ---")
		fmt.Fprintln(s.out, "1. Register")
		fmt.Fprintln(s.out, "2. Login")
		fmt.Fprintln(s.out, "0. Exit")
		choice := s.prompt("Choice: ")
		if s.eof {
			choice = "0"
		}
		switch choice {
		case "1":
			if u := s.register(); u != nil {
				s.userMenu(u)
			}
		case "2":
			if u := s.login(); u != nil {
				s.userMenu(u)
			}
		case "0":
			if err := s.app.Repo.Save(); err != nil {
				warningColor.Fprintln(s.out, "Warning: failed to save data.")
			}
			successColor.Fprintln(s.out, "Goodbye!")
			return nil
		default:
			errorColor.Fprintln(s.out, "Invalid choice.")
		}
	}
}

func (s *shell) register() *core.User {
	username := s.prompt("Choose username: ")
	password := s.prompt("Choose password: ")
	u, err := s.app.Repo.Register(username, password)
	if errors.Is(err, storage.ErrDuplicateUsername) {
		errorColor.Fprintln(s.out, "Username already taken!")
		return nil
	}
	if err != nil {
		errorColor.Fprintf(s.out, "Registration failed: %v\n", err)
		return nil
	}
	successColor.Fprintln(s.out, "Registered successfully!")
	return u
}

func (s *shell) login() *core.User {
	username := s.prompt("Username: ")
	password := s.prompt("Password: ")
	u, err := s.app.Repo.Authenticate(username, password)
	if err != nil {
		errorColor.Fprintln(s.out, "Invalid credentials.")
		return nil
	}
	successColor.Fprintln(s.out, "Login successful!")
	return u
}

// userMenu is the per-session loop.
func (s *shell) userMenu(u *core.User) {
	for {
		headerColor.Fprintf(s.out, "\n--- User Menu (%s) ---\n", u.Username)
		fmt.Fprintln(s.out, "1. Edit Profile")
		fmt.Fprintln(s.out, "2. Create Post")
		fmt.Fprintln(s.out, "3. View Feed")
		fmt.Fprintln(s.out, "4. Follow User")
		fmt.Fprintln(s.out, "5. Unfollow User")
		fmt.Fprintln(s.out, "6. View Profile")
		fmt.Fprintln(s.out, "7. Like a Post")
		fmt.Fprintln(s.out, "8. Comment on a Post")
		fmt.Fprintln(s.out, "9. Send Message")
		fmt.Fprintln(s.out, "10. View Inbox")
		fmt.Fprintln(s.out, "11. Search Users")
		fmt.Fprintln(s.out, "0. Logout")
		choice := s.prompt("Choice: ")
		if s.eof {
			return
		}
		switch choice {
		case "1":
			s.editProfile(u)
		case "2":
			s.createPost(u)
		case "3":
			s.viewFeed(u)
		case "4":
			s.followUser(u)
		case "5":
			s.unfollowUser(u)
		case "6":
			s.viewProfile()
		case "7":
			s.likePost(u)
		case "8":
			s.commentPost(u)
		case "9":
			s.sendMessage(u)
		case "10":
			s.viewInbox(u)
		case "11":
			s.searchUsers()
		case "0":
			return
		default:
			errorColor.Fprintln(s.out, "Invalid choice.")
		}
		s.pause()
		if s.eof {
			return
		}
	}
}

func (s *shell) editProfile(u *core.User) {
	name := s.prompt("Enter display name: ")
	bio := s.prompt("Enter bio: ")
	if err := s.app.Repo.UpdateProfile(u.Username, name, bio); err != nil {
		errorColor.Fprintf(s.out, "Profile update failed: %v\n", err)
		return
	}
	successColor.Fprintln(s.out, "Profile updated.")
}

func (s *shell) createPost(u *core.User) {
	text := s.prompt("Write your post: ")
	if _, err := s.app.Repo.CreatePost(u.Username, text); err != nil {
		errorColor.Fprintf(s.out, "Post failed: %v\n", err)
		return
	}
	successColor.Fprintln(s.out, "Post created!")
}

func (s *shell) viewFeed(u *core.User) {
	posts, err := s.app.Feed.Compose(u.Username)
	if err != nil {
		errorColor.Fprintf(s.out, "Feed failed: %v\n", err)
		return
	}
	renderFeed(s.out, posts)
}

func (s *shell) followUser(u *core.User) {
	target := s.prompt("Enter username to follow: ")
	switch err := s.app.Repo.Follow(u.Username, target); {
	case errors.Is(err, storage.ErrTargetNotFound):
		errorColor.Fprintln(s.out, "User not found.")
	case errors.Is(err, storage.ErrSelfFollow):
		errorColor.Fprintln(s.out, "You cannot follow yourself.")
	case err != nil:
		errorColor.Fprintf(s.out, "Follow failed: %v\n", err)
	default:
		successColor.Fprintf(s.out, "Now following %s\n", target)
	}
}

func (s *shell) unfollowUser(u *core.User) {
	target := s.prompt("Enter username to unfollow: ")
	if err := s.app.Repo.Unfollow(u.Username, target); err != nil {
		warningColor.Fprintf(s.out, "You were not following %s\n", target)
		return
	}
	successColor.Fprintf(s.out, "Unfollowed %s\n", target)
}

func (s *shell) viewProfile() {
	target := s.prompt("Enter username: ")
	profile, err := s.app.Feed.Profile(target)
	if err != nil {
		errorColor.Fprintln(s.out, "User not found.")
		return
	}
	fmt.Fprintln(s.out, profile.Render())
}

func (s *shell) likePost(u *core.User) {
	id, ok := s.promptPostID()
	if !ok {
		return
	}
	if err := s.app.Repo.LikePost(id, u.Username); err != nil {
		errorColor.Fprintln(s.out, "Post not found.")
		return
	}
	successColor.Fprintf(s.out, "Liked post %d\n", id)
}

func (s *shell) commentPost(u *core.User) {
	id, ok := s.promptPostID()
	if !ok {
		return
	}
	p, err := s.app.Repo.GetPost(id)
	if err != nil {
		errorColor.Fprintln(s.out, "Post not found.")
		return
	}
	infoColor.Fprintln(s.out, p.ShortInfo(s.app.Clock.Now()))
	text := s.prompt("Enter comment: ")
	if err := s.app.Repo.AddComment(id, u.Username, text); err != nil {
		errorColor.Fprintln(s.out, "Post not found.")
		return
	}
	successColor.Fprintln(s.out, "Comment added.")
}

func (s *shell) sendMessage(u *core.User) {
	to := s.prompt("Send to: ")
	if _, err := s.app.Repo.GetUser(to); err != nil {
		errorColor.Fprintln(s.out, "User not found.")
		return
	}
	text := s.prompt("Message: ")
	if err := s.app.Repo.SendMessage(u.Username, to, text); err != nil {
		errorColor.Fprintln(s.out, "User not found.")
		return
	}
	successColor.Fprintln(s.out, "Message sent.")
}

func (s *shell) viewInbox(u *core.User) {
	groups, err := s.app.Feed.Inbox(u.Username)
	if err != nil {
		errorColor.Fprintf(s.out, "Inbox failed: %v\n", err)
		return
	}
	renderInbox(s.out, groups)
}

func (s *shell) searchUsers() {
	term := s.prompt("Search term: ")
	renderSearchResults(s.out, s.app.Feed.SearchUsers(term))
}

func (s *shell) promptPostID() (int64, bool) {
	raw := s.prompt("Enter post ID: ")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errorColor.Fprintln(s.out, "Invalid post ID.")
		return 0, false
	}
	return id, true
}
