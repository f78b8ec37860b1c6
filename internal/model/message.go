package model

import "time"

// Message direction constants.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Message status constants, normalized across delivery channels.
const (
	MessageStatusPending   = "pending"
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusFailed    = "failed"
	MessageStatusReceived  = "received"
	MessageStatusHeld      = "held"
	MessageStatusBlocked   = "blocked"
)

// Analysis holds optional labels attached to a message by an upstream
// categorization step. All fields may be empty; downstream consumers treat
// them as hints, never as requirements.
type Analysis struct {
	// Priority is the upstream priority label ("high", "medium", "low").
	Priority string `json:"priority,omitempty"`

	// Category is a coarse message category (e.g., "meeting", "sales").
	Category string `json:"category,omitempty"`

	// Sentiment is the detected tone ("positive", "negative", "neutral").
	Sentiment string `json:"sentiment,omitempty"`
}

// InboundMessage is a message delivered by a source integration before it
// enters a conversation. Sender may be a phone number or another address
// form depending on the source.
type InboundMessage struct {
	// Sender is the remote party's address as the source reported it.
	Sender string `json:"sender"`

	// Recipient is the local endpoint the message arrived on.
	Recipient string `json:"recipient"`

	// SenderName is the remote party's display name, if the source knows it.
	SenderName string `json:"sender_name"`

	// Body is the message text.
	Body string `json:"body"`

	// ReceivedAt is when the source received the message; zero means the
	// ingest clock decides.
	ReceivedAt time.Time `json:"received_at"`

	// Analysis holds upstream categorization hints, if any.
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Message is a single inbound or outbound message within a conversation.
type Message struct {
	// ID is the internal unique identifier for this message.
	ID string `json:"id"`

	// ConversationID links the message to its conversation thread.
	ConversationID string `json:"conversation_id"`

	// ContactPhone is the normalized phone number of the remote party.
	ContactPhone string `json:"contact_phone"`

	// ContactName is the display name of the remote party, if known.
	ContactName string `json:"contact_name"`

	// Direction is incoming or outgoing (use Direction* constants).
	Direction string `json:"direction"`

	// Body is the message text.
	Body string `json:"body"`

	// Status is the delivery status (use MessageStatus* constants).
	Status string `json:"status"`

	// FromNumber and ToNumber are the raw endpoint numbers.
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`

	// Read indicates whether the user has seen this message.
	Read bool `json:"read"`

	// Analysis holds upstream categorization hints, if any.
	Analysis *Analysis `json:"analysis,omitempty"`

	// CreatedAt is when the message was received or sent.
	CreatedAt time.Time `json:"created_at"`
}
