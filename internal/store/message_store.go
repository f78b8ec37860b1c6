package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comsierge/comsierge/internal/model"
)

// InsertMessage stores a new message. If the message has no ID, a new UUID
// is generated. The stored record is returned.
func (s *SQLiteStore) InsertMessage(
	ctx context.Context,
	msg model.Message,
) (model.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	analysisJSON := ""
	if msg.Analysis != nil {
		data, err := json.Marshal(msg.Analysis)
		if err != nil {
			return model.Message{}, fmt.Errorf("marshaling analysis for message %s: %w", msg.ID, err)
		}
		analysisJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (
			id, conversation_id, contact_phone, contact_name,
			direction, body, status, from_number, to_number,
			read, analysis, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.ContactPhone, msg.ContactName,
		msg.Direction, msg.Body, msg.Status, msg.FromNumber, msg.ToNumber,
		boolToInt(msg.Read), analysisJSON, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("inserting message %s: %w", msg.ID, err)
	}

	return msg, nil
}

// GetMessages retrieves messages matching the provided filter, ordered by
// creation time ascending.
func (s *SQLiteStore) GetMessages(
	ctx context.Context,
	filter MessageFilter,
) ([]model.Message, error) {
	var conditions []string
	var args []interface{}

	if filter.ConversationID != nil {
		conditions = append(conditions, "conversation_id = ?")
		args = append(args, *filter.ConversationID)
	}
	if filter.Direction != nil {
		conditions = append(conditions, "direction = ?")
		args = append(args, *filter.Direction)
	}
	if filter.Unread != nil {
		if *filter.Unread {
			conditions = append(conditions, "read = 0")
		} else {
			conditions = append(conditions, "read = 1")
		}
	}

	query := "SELECT * FROM messages"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// GetMessageByID retrieves a single message by its ID.
func (s *SQLiteStore) GetMessageByID(
	ctx context.Context,
	id string,
) (*model.Message, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM messages WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying message %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting message %s: %w", id, err)
		}
		return nil, fmt.Errorf("getting message %s: %w", id, sql.ErrNoRows)
	}

	msg, err := scanMessage(rows)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkMessagesRead marks every message in a conversation as read.
// The update is idempotent.
func (s *SQLiteStore) MarkMessagesRead(
	ctx context.Context,
	conversationID string,
) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE messages SET read = 1 WHERE conversation_id = ? AND read = 0",
		conversationID,
	)
	if err != nil {
		return fmt.Errorf("marking messages read in %s: %w", conversationID, err)
	}
	return nil
}

// scanMessage scans a message row from a sqlx.Rows result set.
func scanMessage(rows *sqlx.Rows) (model.Message, error) {
	var (
		msg          model.Message
		readInt      int
		analysisJSON string
		createdAt    time.Time
	)

	err := rows.Scan(
		&msg.ID, &msg.ConversationID, &msg.ContactPhone, &msg.ContactName,
		&msg.Direction, &msg.Body, &msg.Status, &msg.FromNumber, &msg.ToNumber,
		&readInt, &analysisJSON, &createdAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("scanning message row: %w", err)
	}

	msg.Read = readInt != 0
	msg.CreatedAt = createdAt

	if analysisJSON != "" {
		var analysis model.Analysis
		if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
			return model.Message{}, fmt.Errorf("unmarshaling analysis: %w", err)
		}
		msg.Analysis = &analysis
	}

	return msg, nil
}
