package ingest_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/comsierge/comsierge/internal/ingest"
	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/priority"
	"github.com/comsierge/comsierge/internal/store"
	"github.com/comsierge/comsierge/internal/testutil"
)

var testNow = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

func newTestPipeline(t *testing.T) (*ingest.Pipeline, *store.SQLiteStore) {
	t.Helper()
	s := testutil.NewTestStore(t)
	p := ingest.New(s).WithClock(func() time.Time { return testNow })
	return p, s
}

func TestIngestCreatesConversation(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	msg, err := p.Ingest(ctx, model.InboundMessage{
		Sender:     "555-123-4567",
		SenderName: "Alice",
		Body:       "hey, are you around this weekend?",
		ReceivedAt: testNow,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if msg == nil {
		t.Fatal("expected stored message")
	}
	if msg.Direction != model.DirectionIncoming {
		t.Errorf("expected incoming direction, got %q", msg.Direction)
	}

	conv, err := s.GetConversationByPhone(ctx, "+15551234567")
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if conv == nil {
		t.Fatal("expected conversation for normalized sender")
	}
	if conv.ContactName != "Alice" {
		t.Errorf("expected contact name Alice, got %q", conv.ContactName)
	}
	if conv.UnreadCount != 1 {
		t.Errorf("expected unread 1, got %d", conv.UnreadCount)
	}
	if conv.Priority != nil {
		t.Errorf("expected no priority context for casual text, got %+v", conv.Priority)
	}
	if conv.LastMessage != "hey, are you around this weekend?" {
		t.Errorf("unexpected preview %q", conv.LastMessage)
	}
}

func TestIngestReusesConversation(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	for i := 0; i < 3; i++ {
		if _, err := p.Ingest(ctx, model.InboundMessage{
			Sender: "+15551234567",
			Body:   "ping number",
		}); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	convs, err := s.GetConversations(ctx, store.ConversationFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}
	if convs[0].UnreadCount != 3 {
		t.Errorf("expected unread 3, got %d", convs[0].UnreadCount)
	}
}

func TestIngestMissingSender(t *testing.T) {
	p, _ := newTestPipeline(t)

	if _, err := p.Ingest(context.Background(), model.InboundMessage{Body: "hello"}); err == nil {
		t.Fatal("expected error for missing sender")
	}
}

func TestIngestDropsBlockedContact(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := s.UpsertContact(ctx, model.Contact{
		Name:    "Spammer",
		Phone:   "+15559998888",
		Blocked: true,
	}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	msg, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15559998888",
		Body:   "URGENT limited time offer",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if msg != nil {
		t.Errorf("expected blocked message to be dropped, got %+v", msg)
	}

	conv, err := s.GetConversationByPhone(ctx, "+15559998888")
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if conv != nil {
		t.Errorf("expected no conversation for blocked contact, got %+v", conv)
	}
}

func TestIngestSetsEmergencyContext(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender:     "+15551234567",
		Body:       "Mom is in the hospital, call me ASAP",
		ReceivedAt: testNow,
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil {
		t.Fatal("expected priority context")
	}
	if conv.Priority.Kind != priority.KindEmergency {
		t.Errorf("expected emergency, got %q", conv.Priority.Kind)
	}
	if !conv.Priority.DetectedAt.Equal(testNow) {
		t.Errorf("expected detected_at %v, got %v", testNow, conv.Priority.DetectedAt)
	}
}

func TestIngestKeepsOlderContextOnPlainMessage(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   "Need help immediately!",
	}); err != nil {
		t.Fatalf("ingest emergency: %v", err)
	}
	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   "also, how was your weekend?",
	}); err != nil {
		t.Fatalf("ingest followup: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil || conv.Priority.Kind != priority.KindEmergency {
		t.Errorf("expected emergency context to survive plain followup, got %+v", conv.Priority)
	}
}

func TestIngestReplacesContextOnNewClassification(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   "Need help immediately!",
	}); err != nil {
		t.Fatalf("ingest emergency: %v", err)
	}
	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   "Meeting tomorrow at 2pm to go over it",
	}); err != nil {
		t.Fatalf("ingest meeting: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil || conv.Priority.Kind != priority.KindMeeting {
		t.Errorf("expected meeting context to replace emergency, got %+v", conv.Priority)
	}
}

func TestIngestUsesContactName(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := s.UpsertContact(ctx, model.Contact{
		Name:  "Dr. Patel",
		Phone: "+15551234567",
	}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender:     "+15551234567",
		SenderName: "unknown caller id",
		Body:       "see you thursday",
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if conv.ContactName != "Dr. Patel" {
		t.Errorf("expected saved contact name, got %q", conv.ContactName)
	}
}

func TestIngestTruncatesPreview(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	long := strings.Repeat("information overload in this message body ", 10)
	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   long,
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if len([]rune(conv.LastMessage)) != 120 {
		t.Errorf("expected 120 rune preview, got %d", len([]rune(conv.LastMessage)))
	}
}

func TestMarkReadClearsImportant(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender:   "+15551234567",
		Body:     "Contract details attached for your review before signing",
		Analysis: &model.Analysis{Priority: "high"},
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil || conv.Priority.Kind != priority.KindImportant {
		t.Fatalf("expected important context, got %+v", conv.Priority)
	}

	if err := p.MarkRead(ctx, conv.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	conv, _ = s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority != nil {
		t.Errorf("expected priority cleared on read, got %+v", conv.Priority)
	}
	if conv.UnreadCount != 0 {
		t.Errorf("expected unread reset, got %d", conv.UnreadCount)
	}
}

func TestMarkReadKeepsEmergency(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   "Help me ASAP, this is urgent",
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if err := p.MarkRead(ctx, conv.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	conv, _ = s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil || conv.Priority.Kind != priority.KindEmergency {
		t.Errorf("expected emergency to survive read, got %+v", conv.Priority)
	}
}

func TestMarkReadClearsExpiredMeeting(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	// Received six hours ago; the no-event meeting window has lapsed by testNow.
	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender:     "+15551234567",
		Body:       "Meeting soon about the renovation",
		ReceivedAt: testNow.Add(-7 * time.Hour),
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil || conv.Priority.Kind != priority.KindMeeting {
		t.Fatalf("expected meeting context, got %+v", conv.Priority)
	}

	if err := p.MarkRead(ctx, conv.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	conv, _ = s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority != nil {
		t.Errorf("expected expired meeting cleared on read, got %+v", conv.Priority)
	}
}

func TestMarkReadKeepsUpcomingMeeting(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender:     "+15551234567",
		Body:       "Meeting soon about the renovation",
		ReceivedAt: testNow.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if err := p.MarkRead(ctx, conv.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	conv, _ = s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil {
		t.Error("expected upcoming meeting to survive read")
	}
}

func TestRecordReplyClearsEmergency(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   "Call 911, there was an accident",
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	msg, err := p.RecordReply(ctx, conv.ID, "On my way")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if msg.Direction != model.DirectionOutgoing {
		t.Errorf("expected outgoing direction, got %q", msg.Direction)
	}

	conv, _ = s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority != nil {
		t.Errorf("expected emergency cleared on reply, got %+v", conv.Priority)
	}
	if !conv.UserHasReplied {
		t.Error("expected user_has_replied true")
	}
	if conv.LastMessage != "On my way" {
		t.Errorf("expected reply preview, got %q", conv.LastMessage)
	}
}

func TestRecordReplyKeepsDeadline(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551234567",
		Body:   "Invoice payment due EOD",
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	conv, _ := s.GetConversationByPhone(ctx, "+15551234567")
	if _, err := p.RecordReply(ctx, conv.ID, "will pay tonight"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	conv, _ = s.GetConversationByPhone(ctx, "+15551234567")
	if conv.Priority == nil || conv.Priority.Kind != priority.KindDeadline {
		t.Errorf("expected deadline to survive reply, got %+v", conv.Priority)
	}
}

func TestInboxPriorityIndicator(t *testing.T) {
	ctx := context.Background()
	p, s := newTestPipeline(t)

	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551110001",
		Body:   "Need help immediately!",
	}); err != nil {
		t.Fatalf("ingest emergency: %v", err)
	}
	if _, err := p.Ingest(ctx, model.InboundMessage{
		Sender: "+15551110002",
		Body:   "lunch was great, thanks again for coming out",
	}); err != nil {
		t.Fatalf("ingest casual: %v", err)
	}

	entries, err := p.Inbox(ctx, store.ConversationFilter{})
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	active := map[string]bool{}
	for _, e := range entries {
		active[e.ContactPhone] = e.PriorityActive
	}
	if !active["+15551110001"] {
		t.Error("expected emergency conversation to be flagged")
	}
	if active["+15551110002"] {
		t.Error("expected casual conversation to be unflagged")
	}

	// Replying to the emergency turns the indicator off.
	conv, _ := s.GetConversationByPhone(ctx, "+15551110001")
	if _, err := p.RecordReply(ctx, conv.ID, "on it"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	entries, err = p.Inbox(ctx, store.ConversationFilter{})
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	for _, e := range entries {
		if e.ContactPhone == "+15551110001" && e.PriorityActive {
			t.Error("expected indicator off after reply")
		}
	}
}
