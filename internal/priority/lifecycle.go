package priority

import "time"

// IsActiveForList reports whether a conversation should still show its
// priority indicator in a list view. Emergencies are sticky until the user
// replies, important priorities live exactly as long as unread messages do,
// and time-bound kinds stay live until expiry but are kept alive past it by
// unread messages. A nil context or missing expiry degrades to unread-based
// liveness rather than failing.
func IsActiveForList(ctx *Context, st State) bool {
	if ctx == nil || ctx.Kind == "" {
		return false
	}

	switch ctx.Kind {
	case KindEmergency:
		return !st.UserHasReplied
	case KindImportant:
		return st.UnreadCount > 0
	case KindMeeting, KindDeadline:
		if ctx.ExpiresAt == nil {
			return st.UnreadCount > 0
		}
		return ctx.ExpiresAt.After(st.Now) || st.UnreadCount > 0
	}
	return false
}

// ShouldClearOnRead reports whether the stored priority should be dropped
// when the user opens the conversation. Reading never clears an emergency,
// always clears an important, and clears a time-bound kind only once its
// expiry has passed.
func ShouldClearOnRead(ctx *Context, now time.Time) bool {
	if ctx == nil || ctx.Kind == "" {
		return false
	}

	switch ctx.Kind {
	case KindEmergency:
		return false
	case KindImportant:
		return true
	case KindMeeting, KindDeadline:
		return ctx.ExpiresAt != nil && !now.Before(*ctx.ExpiresAt)
	}
	return false
}

// ShouldClearOnReply reports whether the stored priority should be dropped
// when the user sends a reply. Only emergencies clear on reply; that is also
// the only way they clear.
func ShouldClearOnReply(ctx *Context) bool {
	return ctx != nil && ctx.Kind == KindEmergency
}
