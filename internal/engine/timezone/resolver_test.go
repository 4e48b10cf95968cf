package timezone

import (
	"testing"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver("Europe/London", DefaultTable())
	if err != nil {
		t.Fatalf("unexpected error building resolver: %v", err)
	}
	return r
}

func TestResolveLongestPrefixWins(t *testing.T) {
	r := newTestResolver(t)

	// +1809 is a valid prefix of the same digits as +1; the longer, more
	// specific code must win.
	if zone := r.Resolve("+18095551234"); zone != "America/Santo_Domingo" {
		t.Fatalf("expected America/Santo_Domingo for +1809, got %s", zone)
	}
	if zone := r.Resolve("+12125551234"); zone != "America/New_York" {
		t.Fatalf("expected America/New_York for generic +1, got %s", zone)
	}
}

func TestResolveStripsSeparators(t *testing.T) {
	r := newTestResolver(t)

	for _, input := range []string{"+93 70 123 4567", "+93-70-123-4567", "+93 (70) 1234567", "+93.70.123.4567"} {
		if zone := r.Resolve(input); zone != "Asia/Kabul" {
			t.Errorf("expected Asia/Kabul for %q, got %s", input, zone)
		}
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r := newTestResolver(t)

	cases := []string{"", "not-a-number", "+999999"}
	for _, input := range cases {
		if zone := r.Resolve(input); zone != "Europe/London" {
			t.Errorf("expected default zone for %q, got %s", input, zone)
		}
	}
}

func TestCountryCodeOf(t *testing.T) {
	r := newTestResolver(t)

	code, ok := r.CountryCodeOf("+447911123456")
	if !ok || code != "+44" {
		t.Fatalf("expected +44, got %q (ok=%v)", code, ok)
	}

	if _, ok := r.CountryCodeOf("garbage"); ok {
		t.Fatal("expected no match for malformed input")
	}
}

func TestNewResolverRejectsDuplicatePrefixes(t *testing.T) {
	entries := []Entry{
		{Prefix: "93", Zone: "Asia/Kabul"},
		{Prefix: "93", Zone: "Asia/Tehran"},
	}
	if _, err := NewResolver("Europe/London", entries); err == nil {
		t.Fatal("expected duplicate prefix to be rejected at construction")
	}
}

func TestNewResolverRejectsBadZones(t *testing.T) {
	if _, err := NewResolver("Nowhere/Invalid", nil); err == nil {
		t.Fatal("expected invalid default zone to be rejected")
	}
	if _, err := NewResolver("UTC", []Entry{{Prefix: "44", Zone: "Nowhere/Invalid"}}); err == nil {
		t.Fatal("expected invalid entry zone to be rejected")
	}
	if _, err := NewResolver("UTC", []Entry{{Prefix: "4a", Zone: "Europe/London"}}); err == nil {
		t.Fatal("expected non-digit prefix to be rejected")
	}
}

func TestMergeOverridesShadowBuiltins(t *testing.T) {
	merged := Merge([]Entry{{Prefix: "44", Zone: "Europe/London"}}, map[string]string{"44": "Europe/Dublin", "999": "Asia/Tokyo"})

	r, err := NewResolver("UTC", merged)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone := r.Resolve("+441234"); zone != "Europe/Dublin" {
		t.Fatalf("expected override to shadow builtin, got %s", zone)
	}
	if zone := r.Resolve("+999123"); zone != "Asia/Tokyo" {
		t.Fatalf("expected appended override to resolve, got %s", zone)
	}
}

func TestDefaultTableHasUniquePrefixes(t *testing.T) {
	if _, err := NewResolver("Europe/London", DefaultTable()); err != nil {
		t.Fatalf("built-in table failed validation: %v", err)
	}
}
