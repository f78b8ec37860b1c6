package email

import "time"

// Envelope holds the parsed envelope data from an IMAP message.
type Envelope struct {
	MessageID string
	Subject   string
	FromAddr  string
	FromName  string
	Date      time.Time
	Flags     []string // \Seen, \Flagged, \Answered, \Deleted
	UID       uint32
}

// ParsedMessage holds the envelope plus the extracted plain-text body of an
// email message.
type ParsedMessage struct {
	Envelope Envelope
	TextBody string
}
