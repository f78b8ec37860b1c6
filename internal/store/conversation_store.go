package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/priority"
)

// UpsertConversation inserts or replaces a conversation. If the conversation
// has no ID, a new UUID is generated. The stored record is returned.
func (s *SQLiteStore) UpsertConversation(
	ctx context.Context,
	conv model.Conversation,
) (model.Conversation, error) {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = now
	}

	pcJSON, err := marshalPriorityContext(conv.Priority)
	if err != nil {
		return model.Conversation{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO conversations (
			id, contact_phone, contact_name,
			last_message, last_message_at,
			unread_count, user_has_replied,
			pinned, archived, blocked,
			priority_context, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.ContactPhone, conv.ContactName,
		conv.LastMessage, conv.LastMessageAt.UTC(),
		conv.UnreadCount, boolToInt(conv.UserHasReplied),
		boolToInt(conv.Pinned), boolToInt(conv.Archived), boolToInt(conv.Blocked),
		pcJSON, conv.CreatedAt.UTC(), conv.UpdatedAt.UTC(),
	)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("upserting conversation %s: %w", conv.ID, err)
	}

	return conv, nil
}

// GetConversationByID retrieves a single conversation by its ID.
func (s *SQLiteStore) GetConversationByID(
	ctx context.Context,
	id string,
) (*model.Conversation, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM conversations WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying conversation %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting conversation %s: %w", id, err)
		}
		return nil, fmt.Errorf("getting conversation %s: %w", id, sql.ErrNoRows)
	}

	conv, err := scanConversation(rows)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversationByPhone retrieves the conversation for a phone number,
// or (nil, nil) when none exists yet.
func (s *SQLiteStore) GetConversationByPhone(
	ctx context.Context,
	phone string,
) (*model.Conversation, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM conversations WHERE contact_phone = ?", phone,
	)
	if err != nil {
		return nil, fmt.Errorf("querying conversation for %s: %w", phone, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	conv, err := scanConversation(rows)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversations retrieves conversations matching the provided filter.
func (s *SQLiteStore) GetConversations(
	ctx context.Context,
	filter ConversationFilter,
) ([]model.Conversation, error) {
	var conditions []string
	var args []interface{}

	if filter.Archived != nil {
		conditions = append(conditions, "archived = ?")
		args = append(args, boolToInt(*filter.Archived))
	}
	if filter.Blocked != nil {
		conditions = append(conditions, "blocked = ?")
		args = append(args, boolToInt(*filter.Blocked))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(contact_name LIKE ? OR contact_phone LIKE ? OR last_message LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q, q)
	}

	query := "SELECT * FROM conversations"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "last_message_at"
	if filter.SortBy != "" {
		allowedSorts := map[string]bool{
			"last_message_at": true,
			"unread_count":    true,
			"created_at":      true,
		}
		if allowedSorts[filter.SortBy] {
			sortBy = filter.SortBy
		}
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []model.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

// SetPriorityContext stores the classification result on a conversation,
// replacing any previous one.
func (s *SQLiteStore) SetPriorityContext(
	ctx context.Context,
	id string,
	pc *priority.Context,
) error {
	pcJSON, err := marshalPriorityContext(pc)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE conversations SET priority_context = ?, updated_at = ? WHERE id = ?",
		pcJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting priority context on %s: %w", id, err)
	}
	return nil
}

// ClearPriorityContext drops the stored priority context. The update is
// idempotent; clearing an already-clear conversation is a no-op.
func (s *SQLiteStore) ClearPriorityContext(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET priority_context = '', updated_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("clearing priority context on %s: %w", id, err)
	}
	return nil
}

// IncrementUnread bumps the unread counter by one.
func (s *SQLiteStore) IncrementUnread(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET unread_count = unread_count + 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("incrementing unread on %s: %w", id, err)
	}
	return nil
}

// ResetUnread zeroes the unread counter.
func (s *SQLiteStore) ResetUnread(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET unread_count = 0, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("resetting unread on %s: %w", id, err)
	}
	return nil
}

// SetUserReplied records whether the user has replied in this thread.
func (s *SQLiteStore) SetUserReplied(ctx context.Context, id string, replied bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET user_has_replied = ?, updated_at = ? WHERE id = ?",
		boolToInt(replied), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting user replied on %s: %w", id, err)
	}
	return nil
}

// UpdateLastMessage refreshes the list preview for a conversation.
func (s *SQLiteStore) UpdateLastMessage(
	ctx context.Context,
	id string,
	preview string,
	at time.Time,
) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET last_message = ?, last_message_at = ?, updated_at = ? WHERE id = ?",
		preview, at.UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating last message on %s: %w", id, err)
	}
	return nil
}

// SetArchived toggles the archived flag.
func (s *SQLiteStore) SetArchived(ctx context.Context, id string, archived bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET archived = ?, updated_at = ? WHERE id = ?",
		boolToInt(archived), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting archived on %s: %w", id, err)
	}
	return nil
}

// SetPinned toggles the pinned flag.
func (s *SQLiteStore) SetPinned(ctx context.Context, id string, pinned bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET pinned = ?, updated_at = ? WHERE id = ?",
		boolToInt(pinned), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting pinned on %s: %w", id, err)
	}
	return nil
}

// DeleteConversation removes a conversation; its messages are removed by
// foreign key cascade.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting conversation %s: %w", id, err)
	}
	return nil
}

// IsNotFound reports whether err represents a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// scanConversation scans a conversation row from a sqlx.Rows result set.
func scanConversation(rows *sqlx.Rows) (model.Conversation, error) {
	var (
		conv          model.Conversation
		lastMessageAt time.Time
		unreadCount   int
		userReplied   int
		pinned        int
		archived      int
		blocked       int
		pcJSON        string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := rows.Scan(
		&conv.ID, &conv.ContactPhone, &conv.ContactName,
		&conv.LastMessage, &lastMessageAt,
		&unreadCount, &userReplied,
		&pinned, &archived, &blocked,
		&pcJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("scanning conversation row: %w", err)
	}

	conv.LastMessageAt = lastMessageAt
	conv.UnreadCount = unreadCount
	conv.UserHasReplied = userReplied != 0
	conv.Pinned = pinned != 0
	conv.Archived = archived != 0
	conv.Blocked = blocked != 0
	conv.CreatedAt = createdAt
	conv.UpdatedAt = updatedAt

	pc, err := unmarshalPriorityContext(pcJSON)
	if err != nil {
		return model.Conversation{}, err
	}
	conv.Priority = pc

	return conv, nil
}

// marshalPriorityContext encodes a priority context for storage.
// A nil context is stored as the empty string.
func marshalPriorityContext(pc *priority.Context) (string, error) {
	if pc == nil {
		return "", nil
	}
	data, err := json.Marshal(pc)
	if err != nil {
		return "", fmt.Errorf("marshaling priority context: %w", err)
	}
	return string(data), nil
}

// unmarshalPriorityContext decodes a stored priority context.
func unmarshalPriorityContext(raw string) (*priority.Context, error) {
	if raw == "" {
		return nil, nil
	}
	var pc priority.Context
	if err := json.Unmarshal([]byte(raw), &pc); err != nil {
		return nil, fmt.Errorf("unmarshaling priority context: %w", err)
	}
	return &pc, nil
}
