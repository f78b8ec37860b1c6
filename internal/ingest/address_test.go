package ingest

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"bare ten digits", "5551234567", "+15551234567"},
		{"dashed", "555-123-4567", "+15551234567"},
		{"parenthesized", "(555) 123-4567", "+15551234567"},
		{"dotted", "555.123.4567", "+15551234567"},
		{"already e164", "+15551234567", "+15551234567"},
		{"eleven digits with country code", "15551234567", "+15551234567"},
		{"international", "+442071234567", "+442071234567"},
		{"email address", "Alice@Example.COM", "alice@example.com"},
		{"email with padding", "  bob@example.com  ", "bob@example.com"},
		{"alphanumeric short code", "VERIZON1", "verizon1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAddress(tt.in); got != tt.want {
				t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAddressIdempotent(t *testing.T) {
	inputs := []string{"555-123-4567", "alice@example.com", "+442071234567"}
	for _, in := range inputs {
		once := NormalizeAddress(in)
		if twice := NormalizeAddress(once); twice != once {
			t.Errorf("NormalizeAddress not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
