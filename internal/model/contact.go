package model

import "time"

// Contact is a saved remote party the user communicates with.
type Contact struct {
	// ID is the internal unique identifier for this contact.
	ID string `json:"id"`

	// Name is the display name for this contact.
	Name string `json:"name"`

	// Phone is the normalized phone number, unique per contact.
	Phone string `json:"phone"`

	// Notes is free-form user text about the contact.
	Notes string `json:"notes"`

	// Blocked marks the contact as blocked from ingestion.
	Blocked bool `json:"blocked"`

	// CreatedAt and UpdatedAt are record timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
