package priority

import (
	"regexp"
	"strings"
	"time"
)

// guardMaxLen is the longest trimmed text the triviality guard applies to.
const guardMaxLen = 25

// genericGuard matches short standalone throwaway texts ("ok", "test",
// "important!"). These must never classify as priority even when they happen
// to contain a trigger word, so the guard runs before every rule.
var genericGuard = regexp.MustCompile(
	`(?i)^(?:ok(?:ay)?|yes|no|thanks?|thank you|test(?:ing)?|hello|hi|hey|spam|important|urgent|check(?:ing)?)[\s!.,?]*$`,
)

var (
	emergencyRe = regexp.MustCompile(
		`(?i)\b(?:emergency|urgent(?:ly)?|asap|immediately|right now|911|sos|help)\b`,
	)
	lifeSafetyRe = regexp.MustCompile(
		`(?i)\b(?:heart attack|ambulance|hospitalized|in the hospital|can'?t breathe|bleeding|accident)\b`,
	)
	// relationDownRe matches "{relation} is/was/got {ill/hurt/...}" phrasings.
	relationDownRe = regexp.MustCompile(
		`(?i)\b(?:mom|mother|dad|father|son|daughter|brother|sister|wife|husband|grandma|grandpa|grandmother|grandfather|baby|kid)\b[^.!?]*\b(?:is|was|got)\s+(?:sick|ill|hurt|injured|hospitalized|in danger|in the hospital)\b`,
	)

	// deadlineRe requires genuine due-date context, not the bare word "deadline".
	deadlineRe = regexp.MustCompile(
		`(?i)(?:\bdeadline\s+(?:is|by|on)\b|\bdue\s+(?:by|on|today|tonight|tomorrow|eod|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b|\bpayment\s+due\b|\binvoice\s+due\b|\bsubmit(?:ted)?\s+by\b|\bby\s+end\s+of\s+(?:the\s+)?day\b)`,
	)

	// meetingRe requires actual scheduling context, not the bare word "meeting".
	meetingRe = regexp.MustCompile(
		`(?i)(?:\bmeeting\s+(?:at|@|is|for|on|in|today|tonight|tomorrow|this|next|soon)\b|\bappointment\s+(?:at|on|is|for|today|tomorrow)\b|\bscheduled?\s+(?:a\s+)?call\b|\breschedul(?:e|ed|ing)\b|\binterview\s+(?:at|on|is|today|tomorrow)\b)`,
	)
)

// kindRule is one entry in the ordered classification table. claim reports
// whether the rule applies to the text at all; resolve maps a claimed text to
// a kind, where ok=false forces a no-priority result. First claim wins, so
// precedence is exactly the table order.
type kindRule struct {
	claim   func(text string, h Hints) bool
	resolve func(text string, h Hints) (Kind, bool)
}

var kindRules = []kindRule{
	{
		// Emergency triggers, suppressed when the text mentions spam anywhere.
		// The substring check is deliberately coarse; see the package tests.
		claim: func(text string, _ Hints) bool {
			return emergencyRe.MatchString(text) ||
				lifeSafetyRe.MatchString(text) ||
				relationDownRe.MatchString(text)
		},
		resolve: func(text string, _ Hints) (Kind, bool) {
			if strings.Contains(strings.ToLower(text), "spam") {
				return "", false
			}
			return KindEmergency, true
		},
	},
	{
		claim: func(text string, _ Hints) bool {
			return deadlineRe.MatchString(text)
		},
		resolve: func(string, Hints) (Kind, bool) {
			return KindDeadline, true
		},
	},
	{
		// A meeting needs scheduling context in the text itself. An upstream
		// "meeting" category label without such context downgrades to
		// important when the upstream priority is high, else to nothing.
		claim: func(text string, h Hints) bool {
			return meetingRe.MatchString(text) ||
				strings.EqualFold(strings.TrimSpace(h.Category), "meeting")
		},
		resolve: func(text string, h Hints) (Kind, bool) {
			if meetingRe.MatchString(text) {
				return KindMeeting, true
			}
			if strings.EqualFold(strings.TrimSpace(h.AIPriority), "high") {
				return KindImportant, true
			}
			return "", false
		},
	},
	{
		claim: func(_ string, h Hints) bool {
			return strings.EqualFold(strings.TrimSpace(h.AIPriority), "high")
		},
		resolve: func(string, Hints) (Kind, bool) {
			return KindImportant, true
		},
	},
}

// Classify maps message text plus optional upstream hints to a priority
// context, or nil when the message carries no priority. The result is
// deterministic for a fixed (text, hints, now) triple.
func Classify(text string, hints Hints, now time.Time) *Context {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil
	}
	if len(raw) <= guardMaxLen && genericGuard.MatchString(raw) {
		return nil
	}

	kind, ok := matchKind(raw, hints)
	if !ok {
		return nil
	}

	ctx := &Context{
		Kind:       kind,
		DetectedAt: now,
		Source:     SourceHeuristic,
	}
	if kind == KindMeeting || kind == KindDeadline {
		ctx.EventAt = resolveEventTime(raw, kind, now)
		ctx.ExpiresAt = expiryFor(kind, ctx.EventAt, now)
	}
	return ctx
}

// matchKind walks the rule table in priority order and returns the first
// claimed result.
func matchKind(text string, hints Hints) (Kind, bool) {
	for _, r := range kindRules {
		if r.claim(text, hints) {
			return r.resolve(text, hints)
		}
	}
	return "", false
}
