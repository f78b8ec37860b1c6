package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/source"
)

// fetchWindowDays is how far back a poll looks for new messages.
const fetchWindowDays = 7

// Adapter implements source.Source for email over IMAP. Messages already
// marked \Seen on the server are skipped, and fetched ones are flagged so
// each message is ingested exactly once.
type Adapter struct {
	client   *IMAPClient
	sourceID string
	username string
}

// NewAdapter creates an email source adapter from a source configuration.
// Recognized config keys: imap_host, imap_port, username, use_tls.
func NewAdapter(cfg model.SourceConfig, password string) *Adapter {
	conf := cfg.Config
	if conf == nil {
		conf = map[string]string{}
	}

	port := conf["imap_port"]
	if port == "" {
		port = "993"
	}
	useTLS := conf["use_tls"] != "false"

	return &Adapter{
		client: NewIMAPClient(
			conf["imap_host"], port, conf["username"], password, useTLS,
		),
		sourceID: cfg.ID,
		username: conf["username"],
	}
}

// Type returns the source type identifier for email.
func (a *Adapter) Type() source.Type {
	return source.TypeEmail
}

// ValidateConnection verifies IMAP credentials by connecting,
// authenticating, and selecting INBOX. Returns the username on success.
func (a *Adapter) ValidateConnection(
	ctx context.Context,
) (string, error) {
	client, err := a.client.Connect(ctx)
	if err != nil {
		return "", fmt.Errorf("validating email connection: %w", err)
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return "", fmt.Errorf("selecting INBOX: %w", err)
	}

	return a.username, nil
}

// FetchInbound retrieves recent unseen messages and maps them to inbound
// messages for the ingest pipeline. Fetched messages are marked \Seen.
func (a *Adapter) FetchInbound(
	ctx context.Context,
	limit int,
) ([]model.InboundMessage, error) {
	parsed, err := a.client.FetchRecent(ctx, fetchWindowDays, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching email messages: %w", err)
	}

	var inbound []model.InboundMessage
	var seenUIDs []uint32
	for _, pm := range parsed {
		if hasFlag(pm.Envelope.Flags, "\\Seen") {
			continue
		}

		inbound = append(inbound, model.InboundMessage{
			Sender:     pm.Envelope.FromAddr,
			Recipient:  a.username,
			SenderName: pm.Envelope.FromName,
			Body:       messageBody(pm),
			ReceivedAt: pm.Envelope.Date,
		})
		seenUIDs = append(seenUIDs, pm.Envelope.UID)
	}

	if err := a.client.MarkSeen(ctx, seenUIDs); err != nil {
		return inbound, fmt.Errorf("marking messages seen: %w", err)
	}

	return inbound, nil
}

// messageBody combines the subject line and plain-text body into the text
// handed to classification.
func messageBody(pm ParsedMessage) string {
	subject := strings.TrimSpace(pm.Envelope.Subject)
	body := strings.TrimSpace(pm.TextBody)

	switch {
	case subject == "":
		return body
	case body == "":
		return subject
	default:
		return subject + "\n\n" + body
	}
}

// hasFlag reports whether the flag list contains the given IMAP flag.
func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}
