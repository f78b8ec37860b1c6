package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comsierge/comsierge/internal/model"
)

// UpsertContact inserts or replaces a contact. If the contact has no ID,
// a new UUID is generated. The stored record is returned.
func (s *SQLiteStore) UpsertContact(
	ctx context.Context,
	contact model.Contact,
) (model.Contact, error) {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO contacts (
			id, name, phone, notes, blocked, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.Name, contact.Phone, contact.Notes,
		boolToInt(contact.Blocked), contact.CreatedAt.UTC(), contact.UpdatedAt.UTC(),
	)
	if err != nil {
		return model.Contact{}, fmt.Errorf("upserting contact %s: %w", contact.ID, err)
	}

	return contact, nil
}

// GetContacts retrieves all contacts ordered by name.
func (s *SQLiteStore) GetContacts(ctx context.Context) ([]model.Contact, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM contacts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// GetContactByPhone retrieves the contact for a phone number,
// or (nil, nil) when none exists.
func (s *SQLiteStore) GetContactByPhone(
	ctx context.Context,
	phone string,
) (*model.Contact, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM contacts WHERE phone = ?", phone)
	if err != nil {
		return nil, fmt.Errorf("querying contact for %s: %w", phone, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	c, err := scanContact(rows)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteContact removes a contact by ID.
func (s *SQLiteStore) DeleteContact(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting contact %s: %w", id, err)
	}
	return nil
}

// scanContact scans a contact row from a sqlx.Rows result set.
func scanContact(rows *sqlx.Rows) (model.Contact, error) {
	var (
		c         model.Contact
		blocked   int
		createdAt time.Time
		updatedAt time.Time
	)

	err := rows.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Notes,
		&blocked, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Contact{}, fmt.Errorf("scanning contact row: %w", err)
	}

	c.Blocked = blocked != 0
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt

	return c, nil
}
