package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/priority"
	"github.com/comsierge/comsierge/internal/store"
	"github.com/comsierge/comsierge/internal/testutil"
)

func TestUpsertAndGetConversation(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	conv, err := s.UpsertConversation(ctx, model.Conversation{
		ContactPhone: "+15551234567",
		ContactName:  "Alice",
		LastMessage:  "hello",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("expected generated ID")
	}
	if conv.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := s.GetConversationByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.ContactPhone != "+15551234567" {
		t.Errorf("expected phone +15551234567, got %q", got.ContactPhone)
	}
	if got.ContactName != "Alice" {
		t.Errorf("expected name Alice, got %q", got.ContactName)
	}
	if got.Priority != nil {
		t.Errorf("expected no priority context, got %+v", got.Priority)
	}
}

func TestGetConversationByIDMissing(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	_, err := s.GetConversationByID(ctx, "no-such-id")
	if err == nil {
		t.Fatal("expected error for missing conversation")
	}
	if !store.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestGetConversationByPhone(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	got, err := s.GetConversationByPhone(ctx, "+15550000000")
	if err != nil {
		t.Fatalf("get by phone: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown phone, got %+v", got)
	}

	conv, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15550000000"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err = s.GetConversationByPhone(ctx, "+15550000000")
	if err != nil {
		t.Fatalf("get by phone: %v", err)
	}
	if got == nil || got.ID != conv.ID {
		t.Errorf("expected conversation %s, got %+v", conv.ID, got)
	}
}

func TestConversationPhoneUnique(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	first, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15551112222"})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	first.ContactName = "Bob"
	if _, err := s.UpsertConversation(ctx, first); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	convs, err := s.GetConversations(ctx, store.ConversationFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}
	if convs[0].ContactName != "Bob" {
		t.Errorf("expected updated name Bob, got %q", convs[0].ContactName)
	}
}

func TestPriorityContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	conv, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15553334444"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	detected := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	expires := detected.Add(6 * time.Hour)
	pc := &priority.Context{
		Kind:       priority.KindMeeting,
		ExpiresAt:  &expires,
		DetectedAt: detected,
		Source:     priority.SourceHeuristic,
	}
	if err := s.SetPriorityContext(ctx, conv.ID, pc); err != nil {
		t.Fatalf("set priority: %v", err)
	}

	got, err := s.GetConversationByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Priority == nil {
		t.Fatal("expected stored priority context")
	}
	if got.Priority.Kind != priority.KindMeeting {
		t.Errorf("expected kind meeting, got %q", got.Priority.Kind)
	}
	if got.Priority.ExpiresAt == nil || !got.Priority.ExpiresAt.Equal(expires) {
		t.Errorf("expected expires_at %v, got %v", expires, got.Priority.ExpiresAt)
	}
	if got.Priority.EventAt != nil {
		t.Errorf("expected nil event_at, got %v", got.Priority.EventAt)
	}

	if err := s.ClearPriorityContext(ctx, conv.ID); err != nil {
		t.Fatalf("clear priority: %v", err)
	}
	got, err = s.GetConversationByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if got.Priority != nil {
		t.Errorf("expected cleared priority, got %+v", got.Priority)
	}

	// Clearing again is a no-op, not an error.
	if err := s.ClearPriorityContext(ctx, conv.ID); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestUnreadCounter(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	conv, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15555556666"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.IncrementUnread(ctx, conv.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	got, _ := s.GetConversationByID(ctx, conv.ID)
	if got.UnreadCount != 3 {
		t.Errorf("expected unread 3, got %d", got.UnreadCount)
	}

	if err := s.ResetUnread(ctx, conv.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, _ = s.GetConversationByID(ctx, conv.ID)
	if got.UnreadCount != 0 {
		t.Errorf("expected unread 0 after reset, got %d", got.UnreadCount)
	}
}

func TestSetUserReplied(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	conv, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15557778888"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if conv.UserHasReplied {
		t.Fatal("expected user_has_replied to start false")
	}

	if err := s.SetUserReplied(ctx, conv.ID, true); err != nil {
		t.Fatalf("set replied: %v", err)
	}
	got, _ := s.GetConversationByID(ctx, conv.ID)
	if !got.UserHasReplied {
		t.Error("expected user_has_replied true")
	}
}

func TestSetPinned(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	conv, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15552224444"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.SetPinned(ctx, conv.ID, true); err != nil {
		t.Fatalf("pin: %v", err)
	}
	got, _ := s.GetConversationByID(ctx, conv.ID)
	if !got.Pinned {
		t.Error("expected pinned true")
	}

	if err := s.SetPinned(ctx, conv.ID, false); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	got, _ = s.GetConversationByID(ctx, conv.ID)
	if got.Pinned {
		t.Error("expected pinned false")
	}
}

func TestGetConversationsFilters(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	mk := func(phone, name string, archived bool) {
		t.Helper()
		conv, err := s.UpsertConversation(ctx, model.Conversation{
			ContactPhone: phone,
			ContactName:  name,
		})
		if err != nil {
			t.Fatalf("upsert %s: %v", phone, err)
		}
		if archived {
			if err := s.SetArchived(ctx, conv.ID, true); err != nil {
				t.Fatalf("archive %s: %v", phone, err)
			}
		}
	}
	mk("+15550000001", "Alice", false)
	mk("+15550000002", "Bob", true)
	mk("+15550000003", "Carter", false)

	archived := false
	convs, err := s.GetConversations(ctx, store.ConversationFilter{Archived: &archived})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(convs) != 2 {
		t.Errorf("expected 2 active conversations, got %d", len(convs))
	}

	query := "car"
	convs, err = s.GetConversations(ctx, store.ConversationFilter{Query: &query})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(convs) != 1 || convs[0].ContactName != "Carter" {
		t.Errorf("expected search to match Carter, got %+v", convs)
	}

	convs, err = s.GetConversations(ctx, store.ConversationFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(convs) != 1 {
		t.Errorf("expected 1 paginated conversation, got %d", len(convs))
	}
}

func TestGetConversationsSortByLastMessage(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	base := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	old, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15551110001"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	recent, err := s.UpsertConversation(ctx, model.Conversation{ContactPhone: "+15551110002"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpdateLastMessage(ctx, old.ID, "old", base.Add(-time.Hour)); err != nil {
		t.Fatalf("update old: %v", err)
	}
	if err := s.UpdateLastMessage(ctx, recent.ID, "recent", base); err != nil {
		t.Fatalf("update recent: %v", err)
	}

	convs, err := s.GetConversations(ctx, store.ConversationFilter{
		SortBy:   "last_message_at",
		SortDesc: true,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != recent.ID {
		t.Errorf("expected most recent first, got %s", convs[0].ContactPhone)
	}
	if convs[0].LastMessage != "recent" {
		t.Errorf("expected preview 'recent', got %q", convs[0].LastMessage)
	}
}
