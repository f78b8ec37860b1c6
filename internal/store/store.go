package store

import (
	"context"
	"time"

	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/priority"
)

// ConversationFilter controls filtering, sorting, and pagination for
// conversation queries.
type ConversationFilter struct {
	Archived *bool
	Blocked  *bool
	Query    *string // search contact name, phone, last message
	SortBy   string  // "last_message_at", "unread_count", "created_at"
	SortDesc bool
	Limit    int
	Offset   int
}

// MessageFilter controls filtering and pagination for message queries.
type MessageFilter struct {
	ConversationID *string
	Direction      *string
	Unread         *bool
	Limit          int
	Offset         int
}

// Store defines the persistence interface for conversations, messages,
// contacts, and configured message sources.
//
// Priority lifecycle transitions go through SetPriorityContext and
// ClearPriorityContext; both are idempotent single-row updates, so
// concurrent read/reply events cannot corrupt conversation state.
type Store interface {
	// === Conversations ===

	// UpsertConversation inserts or replaces a conversation, generating an
	// ID when absent, and returns the stored record.
	UpsertConversation(ctx context.Context, conv model.Conversation) (model.Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*model.Conversation, error)
	// GetConversationByPhone returns (nil, nil) when no conversation exists
	// for the phone number.
	GetConversationByPhone(ctx context.Context, phone string) (*model.Conversation, error)
	GetConversations(ctx context.Context, filter ConversationFilter) ([]model.Conversation, error)

	SetPriorityContext(ctx context.Context, id string, pc *priority.Context) error
	ClearPriorityContext(ctx context.Context, id string) error
	IncrementUnread(ctx context.Context, id string) error
	ResetUnread(ctx context.Context, id string) error
	SetUserReplied(ctx context.Context, id string, replied bool) error
	UpdateLastMessage(ctx context.Context, id string, preview string, at time.Time) error
	SetArchived(ctx context.Context, id string, archived bool) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	// DeleteConversation removes a conversation and, via foreign key
	// cascade, its messages.
	DeleteConversation(ctx context.Context, id string) error

	// === Messages ===

	InsertMessage(ctx context.Context, msg model.Message) (model.Message, error)
	GetMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID string) error

	// === Contacts ===

	UpsertContact(ctx context.Context, contact model.Contact) (model.Contact, error)
	GetContacts(ctx context.Context) ([]model.Contact, error)
	// GetContactByPhone returns (nil, nil) when no contact exists.
	GetContactByPhone(ctx context.Context, phone string) (*model.Contact, error)
	DeleteContact(ctx context.Context, id string) error

	// === Sources ===

	UpsertSource(ctx context.Context, src model.SourceConfig) error
	GetSources(ctx context.Context) ([]model.SourceConfig, error)
	DeleteSource(ctx context.Context, id string) error
}
