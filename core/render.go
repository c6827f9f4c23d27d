package core

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the fixed layout for absolute timestamps in rendered
// output.
const TimestampLayout = "2006-01-02 15:04"

// RelativeAge renders how long ago t was relative to now: whole seconds
// under a minute, then minutes, hours, and days, always truncating.
func RelativeAge(t, now time.Time) string {
	diff := int64(now.Sub(t).Seconds())
	if diff < 60 {
		return fmt.Sprintf("%ds ago", diff)
	}
	if diff < 3600 {
		return fmt.Sprintf("%dm ago", diff/60)
	}
	if diff < 86400 {
		return fmt.Sprintf("%dh ago", diff/3600)
	}
	return fmt.Sprintf("%dd ago", diff/86400)
}

// ShortInfo renders the one-line form of a post with its relative age.
func (p *Post) ShortInfo(now time.Time) string {
	return fmt.Sprintf("Post#%d by %s - %s", p.ID, p.Author, RelativeAge(p.CreatedAt, now))
}

// Render returns the full multi-line form of a post, comments included.
func (p *Post) Render() string {
	var b strings.Builder
	b.WriteString("----------\n")
	fmt.Fprintf(&b, "Post #%d by %s at %s\n", p.ID, p.Author, p.CreatedAt.Format(TimestampLayout))
	b.WriteString(p.Text)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Likes: %d  Comments: %d\n", len(p.Likes), len(p.Comments))
	if len(p.Comments) > 0 {
		b.WriteString("Comments:\n")
		for _, c := range p.Comments {
			fmt.Fprintf(&b, " - %s\n", c.Render())
		}
	}
	b.WriteString("----------")
	return b.String()
}

// Render returns the one-line form of a comment.
func (c *Comment) Render() string {
	return fmt.Sprintf("%s: %s (%s)", c.From, c.Text, c.At.Format(TimestampLayout))
}

// Render returns the one-line form of a direct message.
func (m *Message) Render() string {
	return fmt.Sprintf("[%s] %s -> %s: %s", m.At.Format(TimestampLayout), m.From, m.To, m.Text)
}
