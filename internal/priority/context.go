// Package priority classifies inbound message text into a priority kind and
// answers the lifecycle questions a conversation list needs: is the priority
// still live, and does reading or replying clear it. The package is pure; it
// holds no state and every function is total over its inputs. Callers supply
// the clock, persistable results, and all conversation state.
package priority

import "time"

// Kind identifies the category of a detected priority.
type Kind string

const (
	KindEmergency Kind = "emergency"
	KindImportant Kind = "important"
	KindMeeting   Kind = "meeting"
	KindDeadline  Kind = "deadline"
)

// SourceHeuristic tags contexts produced by the rule-based classifier,
// as opposed to an upstream AI categorization step.
const SourceHeuristic = "heuristic"

// Context is the immutable result of classifying a single message.
// A nil *Context means the message carries no priority.
type Context struct {
	// Kind is the detected priority category.
	Kind Kind `json:"kind"`

	// EventAt is the point in time the text refers to (a meeting start,
	// a due instant). Set only for meeting/deadline when resolvable.
	EventAt *time.Time `json:"event_at,omitempty"`

	// ExpiresAt is when the priority goes stale. Always derived, never
	// caller-supplied. Nil for emergency (never auto-expires) and for
	// important (governed by read state, not time).
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// DetectedAt is the clock time at classification.
	DetectedAt time.Time `json:"detected_at"`

	// Source records how this context was produced (see SourceHeuristic).
	Source string `json:"source"`
}

// Hints are optional labels from an upstream categorization step. Missing
// hints are not an error; the classifier just falls through to lower rules.
type Hints struct {
	// Category is a coarse message category (e.g., "meeting").
	Category string

	// AIPriority is an upstream priority label ("high", "medium", "low").
	AIPriority string
}

// State is the caller-owned conversation state consulted by the lifecycle
// predicates. The engine never stores or mutates it.
type State struct {
	UnreadCount    int
	UserHasReplied bool
	Now            time.Time
}
