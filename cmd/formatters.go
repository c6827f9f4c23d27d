package cmd

import (
	"fmt"
	"io"

	"chirp/core"
	"chirp/feed"
)

// renderFeed displays a composed feed, newest post first.
func renderFeed(w io.Writer, posts []*core.Post) {
	if len(posts) == 0 {
		warningColor.Fprintln(w, "Feed is empty.")
		return
	}
	for _, p := range posts {
		fmt.Fprintln(w, p.Render())
	}
}

// renderInbox displays received messages grouped by sender.
func renderInbox(w io.Writer, groups []feed.InboxGroup) {
	if len(groups) == 0 {
		warningColor.Fprintln(w, "Inbox empty.")
		return
	}
	for _, g := range groups {
		infoColor.Fprintf(w, "From %s:\n", g.Sender)
		for _, m := range g.Messages {
			fmt.Fprintln(w, m.Render())
		}
	}
}

// renderSearchResults displays matched users as "username (name)" lines.
func renderSearchResults(w io.Writer, users []*core.User) {
	if len(users) == 0 {
		warningColor.Fprintln(w, "No users found.")
		return
	}
	for _, u := range users {
		fmt.Fprintf(w, "%s (%s)\n", u.Username, u.Name)
	}
}
