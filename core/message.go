package core

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message. Once delivered it is owned by the recipient's
// inbox; there is no delivery receipt and no deletion.
type Message struct {
	ID   string
	From string
	To   string
	Text string
	At   time.Time
}

// NewMessage creates a message stamped with the given time. The id keeps
// inbox records addressable even though nothing deletes them today.
func NewMessage(from, to, text string, at time.Time) *Message {
	return &Message{
		ID:   uuid.NewString(),
		From: from,
		To:   to,
		Text: text,
		At:   at,
	}
}
