package priority

import "time"

// Expiry windows. Meetings are time-critical only briefly after they start;
// deadlines linger because consequences persist past the due instant. When
// no event time resolves, a fixed conservative window applies instead of
// blocking classification.
const (
	meetingGrace   = 2 * time.Hour
	meetingWindow  = 6 * time.Hour
	deadlineGrace  = 12 * time.Hour
	deadlineWindow = 24 * time.Hour
)

// expiryFor derives the absolute instant after which a time-bound priority
// goes stale. Emergency priorities never auto-expire and important ones are
// governed by read state, so neither receives an expiry.
func expiryFor(kind Kind, eventAt *time.Time, now time.Time) *time.Time {
	switch kind {
	case KindMeeting:
		if eventAt != nil {
			t := eventAt.Add(meetingGrace)
			return &t
		}
		t := now.Add(meetingWindow)
		return &t
	case KindDeadline:
		if eventAt != nil {
			t := eventAt.Add(deadlineGrace)
			return &t
		}
		t := now.Add(deadlineWindow)
		return &t
	case KindEmergency, KindImportant:
		return nil
	}
	return nil
}
