package ingest

import (
	"regexp"
	"strings"
)

// phoneLikePattern matches addresses made of digits and common phone
// punctuation, with an optional leading +.
var phoneLikePattern = regexp.MustCompile(`^\+?[\d\s().-]+$`)

var digitPattern = regexp.MustCompile(`\d`)

// NormalizeAddress canonicalizes a sender address so one conversation exists
// per remote party. Phone-like addresses are reduced to +<digits> with a US
// country code assumed for bare 10-digit numbers; anything else (an email
// address, a short code with letters) is lowercased and trimmed.
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}

	if !phoneLikePattern.MatchString(addr) || !digitPattern.MatchString(addr) {
		return strings.ToLower(addr)
	}

	var digits strings.Builder
	for _, r := range addr {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	default:
		return "+" + d
	}
}
