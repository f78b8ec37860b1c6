package priority

import (
	"regexp"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// parser resolves natural-language time references in message text.
// A when.Parser is read-only after construction, so sharing one across
// concurrent Classify calls is safe.
var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

var eodRe = regexp.MustCompile(`(?i)(?:\beod\b|\bend\s+of\s+(?:the\s+)?day\b)`)

// resolveEventTime extracts the instant a meeting/deadline text refers to,
// or nil when nothing resolves. Ambiguous references resolve forward: a bare
// weekday means the next occurrence and a clock time already past today
// means tomorrow. Deadline texts with an end-of-day shorthand and no
// parseable date resolve deterministically to 23:59:59.999 of the current
// day without consulting the parser.
func resolveEventTime(text string, kind Kind, now time.Time) *time.Time {
	if r, err := parser.Parse(text, now); err == nil && r != nil && !r.Time.IsZero() {
		t := forwardBias(r.Time, now)
		return &t
	}

	if kind == KindDeadline && eodRe.MatchString(text) {
		t := endOfDay(now)
		return &t
	}

	return nil
}

// forwardBias pushes a resolved instant into the future one day at a time
// while it sits behind the reference clock.
func forwardBias(t, now time.Time) time.Time {
	for t.Before(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// endOfDay returns 23:59:59.999 of now's calendar day in now's location.
func endOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), now.Location())
}
