// Package ingest wires inbound messages through priority classification into
// the conversation store and owns the read/reply lifecycle transitions. The
// priority engine itself stays pure; everything stateful lives here.
package ingest

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/priority"
	"github.com/comsierge/comsierge/internal/store"
)

// previewLen caps the conversation list preview text.
const previewLen = 120

// Entry pairs a conversation with its live priority flag for list rendering.
type Entry struct {
	model.Conversation

	// PriorityActive is the freshly evaluated list indicator.
	PriorityActive bool
}

// Analyzer labels message text with upstream hints. Analysis failures are
// tolerated; ingestion proceeds without hints.
type Analyzer interface {
	Analyze(ctx context.Context, body string) (*model.Analysis, error)
}

// Pipeline routes inbound messages into conversations and applies the
// priority lifecycle on read and reply events.
type Pipeline struct {
	store    store.Store
	analyzer Analyzer
	clock    func() time.Time
}

// New creates a Pipeline backed by the given store.
func New(s store.Store) *Pipeline {
	return &Pipeline{store: s, clock: time.Now}
}

// WithClock overrides the pipeline clock. Tests use this to pin time.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// WithAnalyzer attaches an analyzer that labels messages arriving without
// upstream hints.
func (p *Pipeline) WithAnalyzer(a Analyzer) *Pipeline {
	p.analyzer = a
	return p
}

// Ingest stores one inbound message: it finds or creates the conversation
// for the sender, classifies the text, bumps the unread counter, and
// replaces the conversation's priority context when the classifier produced
// one. Messages from blocked contacts are dropped and return (nil, nil).
func (p *Pipeline) Ingest(
	ctx context.Context,
	in model.InboundMessage,
) (*model.Message, error) {
	sender := NormalizeAddress(in.Sender)
	if sender == "" {
		return nil, fmt.Errorf("ingesting message: missing sender address")
	}

	now := in.ReceivedAt
	if now.IsZero() {
		now = p.clock()
	}

	contact, err := p.store.GetContactByPhone(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("looking up contact %s: %w", sender, err)
	}
	if contact != nil && contact.Blocked {
		log.Debug("dropping message from blocked contact", "sender", sender)
		return nil, nil
	}

	name := in.SenderName
	if contact != nil && contact.Name != "" {
		name = contact.Name
	}

	conv, err := p.store.GetConversationByPhone(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("looking up conversation for %s: %w", sender, err)
	}
	if conv == nil {
		created, err := p.store.UpsertConversation(ctx, model.Conversation{
			ContactPhone:  sender,
			ContactName:   name,
			LastMessageAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("creating conversation for %s: %w", sender, err)
		}
		conv = &created
	}

	if in.Analysis == nil && p.analyzer != nil {
		analysis, err := p.analyzer.Analyze(ctx, in.Body)
		if err != nil {
			log.Warn("analysis failed", "sender", sender, "error", err)
		} else {
			in.Analysis = analysis
		}
	}

	var hints priority.Hints
	if in.Analysis != nil {
		hints = priority.Hints{
			Category:   in.Analysis.Category,
			AIPriority: in.Analysis.Priority,
		}
	}
	pc := priority.Classify(in.Body, hints, now)

	msg, err := p.store.InsertMessage(ctx, model.Message{
		ConversationID: conv.ID,
		ContactPhone:   sender,
		ContactName:    name,
		Direction:      model.DirectionIncoming,
		Body:           in.Body,
		Status:         model.MessageStatusReceived,
		FromNumber:     in.Sender,
		ToNumber:       in.Recipient,
		Analysis:       in.Analysis,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("storing inbound message: %w", err)
	}

	if err := p.store.UpdateLastMessage(ctx, conv.ID, preview(in.Body), now); err != nil {
		return nil, err
	}
	if err := p.store.IncrementUnread(ctx, conv.ID); err != nil {
		return nil, err
	}

	// A new classification replaces the stored context; a no-priority
	// result leaves any live context in place until a lifecycle event
	// clears it.
	if pc != nil {
		if err := p.store.SetPriorityContext(ctx, conv.ID, pc); err != nil {
			return nil, err
		}
		log.Debug("priority detected",
			"conversation", conv.ID, "kind", string(pc.Kind))
	}

	return &msg, nil
}

// MarkRead applies the read transition: messages flip to read, the unread
// counter resets, and the stored priority clears when the engine says
// reading clears it. All updates are idempotent.
func (p *Pipeline) MarkRead(ctx context.Context, conversationID string) error {
	conv, err := p.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		return err
	}

	if priority.ShouldClearOnRead(conv.Priority, p.clock()) {
		if err := p.store.ClearPriorityContext(ctx, conversationID); err != nil {
			return err
		}
	}

	if err := p.store.MarkMessagesRead(ctx, conversationID); err != nil {
		return err
	}
	return p.store.ResetUnread(ctx, conversationID)
}

// RecordReply stores an outgoing message, marks the thread replied, and
// clears the stored priority when the engine says replying clears it.
func (p *Pipeline) RecordReply(
	ctx context.Context,
	conversationID string,
	body string,
) (*model.Message, error) {
	conv, err := p.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	now := p.clock()
	msg, err := p.store.InsertMessage(ctx, model.Message{
		ConversationID: conv.ID,
		ContactPhone:   conv.ContactPhone,
		ContactName:    conv.ContactName,
		Direction:      model.DirectionOutgoing,
		Body:           body,
		Status:         model.MessageStatusSent,
		ToNumber:       conv.ContactPhone,
		Read:           true,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("storing reply: %w", err)
	}

	if err := p.store.UpdateLastMessage(ctx, conv.ID, preview(body), now); err != nil {
		return nil, err
	}
	if err := p.store.SetUserReplied(ctx, conv.ID, true); err != nil {
		return nil, err
	}

	if priority.ShouldClearOnReply(conv.Priority) {
		if err := p.store.ClearPriorityContext(ctx, conv.ID); err != nil {
			return nil, err
		}
	}

	return &msg, nil
}

// Inbox lists conversations with their priority indicator evaluated against
// the current clock and stored unread/reply state.
func (p *Pipeline) Inbox(
	ctx context.Context,
	filter store.ConversationFilter,
) ([]Entry, error) {
	conversations, err := p.store.GetConversations(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := p.clock()
	entries := make([]Entry, 0, len(conversations))
	for _, conv := range conversations {
		entries = append(entries, Entry{
			Conversation: conv,
			PriorityActive: priority.IsActiveForList(conv.Priority, priority.State{
				UnreadCount:    conv.UnreadCount,
				UserHasReplied: conv.UserHasReplied,
				Now:            now,
			}),
		})
	}

	return entries, nil
}

// preview trims a body down to the conversation list preview length.
func preview(body string) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= previewLen {
		return body
	}
	return string(runes[:previewLen])
}
