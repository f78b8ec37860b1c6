package model

import (
	"time"

	"github.com/comsierge/comsierge/internal/priority"
)

// Conversation is the thread between the user and a single contact. It owns
// the state the priority lifecycle predicates consume: unread count, whether
// the user has replied, and the stored priority context of the most recent
// classified message.
type Conversation struct {
	// ID is the internal unique identifier for this conversation.
	ID string `json:"id"`

	// ContactPhone is the normalized phone number of the remote party.
	// One conversation exists per phone number.
	ContactPhone string `json:"contact_phone"`

	// ContactName is the display name; empty means show the phone number.
	ContactName string `json:"contact_name"`

	// LastMessage is a preview of the most recent message body.
	LastMessage string `json:"last_message"`

	// LastMessageAt is when the most recent message arrived or was sent.
	LastMessageAt time.Time `json:"last_message_at"`

	// UnreadCount is the number of inbound messages not yet read.
	UnreadCount int `json:"unread_count"`

	// UserHasReplied reports whether the user has ever sent an outgoing
	// message in this thread. Emergencies stay active until this flips.
	UserHasReplied bool `json:"user_has_replied"`

	// Pinned, Archived, and Blocked are user-managed list flags.
	Pinned   bool `json:"pinned"`
	Archived bool `json:"archived"`
	Blocked  bool `json:"blocked"`

	// Priority is the stored classification of the latest inbound message,
	// nil when none is live. Replaced on new messages, cleared by the
	// read/reply transitions.
	Priority *priority.Context `json:"priority,omitempty"`

	// CreatedAt and UpdatedAt are record timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the contact name, falling back to the phone number.
func (c *Conversation) DisplayName() string {
	if c.ContactName != "" {
		return c.ContactName
	}
	return c.ContactPhone
}
