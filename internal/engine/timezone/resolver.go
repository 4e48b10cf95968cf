package timezone

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry binds one international dialing prefix (digits only, no leading plus)
// to an IANA timezone name.
type Entry struct {
	Prefix string
	Zone   string
}

// Resolver maps phone numbers onto IANA timezones by longest-matching dialing
// prefix. Immutable after construction and safe for concurrent use.
type Resolver struct {
	defaultZone string
	zones       map[string]string
	// distinct prefix lengths, longest first, so more specific codes win
	// (+1809 over +1 for the same digits).
	lengths []int
}

// NewResolver builds a resolver over the given entries. Duplicate prefixes
// and unloadable zone names are rejected here rather than silently resolved,
// so a broken table can never reach request time.
func NewResolver(defaultZone string, entries []Entry) (*Resolver, error) {
	if _, err := time.LoadLocation(defaultZone); err != nil {
		return nil, fmt.Errorf("timezone: default zone %q: %w", defaultZone, err)
	}

	zones := make(map[string]string, len(entries))
	lengthSet := make(map[int]struct{})
	for _, e := range entries {
		prefix := strings.TrimPrefix(e.Prefix, "+")
		if prefix == "" {
			return nil, fmt.Errorf("timezone: empty dialing prefix for zone %q", e.Zone)
		}
		for _, r := range prefix {
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("timezone: prefix %q contains non-digit %q", e.Prefix, r)
			}
		}
		if _, ok := zones[prefix]; ok {
			return nil, fmt.Errorf("timezone: duplicate dialing prefix +%s", prefix)
		}
		if _, err := time.LoadLocation(e.Zone); err != nil {
			return nil, fmt.Errorf("timezone: zone %q for prefix +%s: %w", e.Zone, prefix, err)
		}
		zones[prefix] = e.Zone
		lengthSet[len(prefix)] = struct{}{}
	}

	lengths := make([]int, 0, len(lengthSet))
	for l := range lengthSet {
		lengths = append(lengths, l)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	return &Resolver{defaultZone: defaultZone, zones: zones, lengths: lengths}, nil
}

// Resolve returns the IANA zone for the number's longest matching dialing
// prefix, or the default zone when nothing matches. Malformed input never
// fails, it just falls through to the default.
func (r *Resolver) Resolve(phoneNumber string) string {
	if prefix, ok := r.match(phoneNumber); ok {
		return r.zones[prefix]
	}
	return r.defaultZone
}

// CountryCodeOf returns the matched dialing prefix (with leading plus) for
// classification purposes, or false when the number matches no known prefix.
func (r *Resolver) CountryCodeOf(phoneNumber string) (string, bool) {
	prefix, ok := r.match(phoneNumber)
	if !ok {
		return "", false
	}
	return "+" + prefix, true
}

// DefaultZone returns the configured fallback zone.
func (r *Resolver) DefaultZone() string {
	return r.defaultZone
}

func (r *Resolver) match(phoneNumber string) (string, bool) {
	digits := normalize(phoneNumber)
	if digits == "" {
		return "", false
	}
	for _, l := range r.lengths {
		if l > len(digits) {
			continue
		}
		if _, ok := r.zones[digits[:l]]; ok {
			return digits[:l], true
		}
	}
	return "", false
}

// normalize strips the leading plus and common separators, leaving only the
// digit string used for prefix matching.
func normalize(phoneNumber string) string {
	var b strings.Builder
	for _, r := range phoneNumber {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator, skip
		default:
			return ""
		}
	}
	return b.String()
}

// Merge overlays override prefixes onto base entries, replacing matching
// prefixes and appending new ones. Overrides come from configuration and are
// allowed to shadow the built-in table.
func Merge(base []Entry, overrides map[string]string) []Entry {
	merged := make([]Entry, 0, len(base)+len(overrides))
	seen := make(map[string]struct{}, len(overrides))
	for prefix := range overrides {
		seen[strings.TrimPrefix(prefix, "+")] = struct{}{}
	}
	for _, e := range base {
		if _, shadowed := seen[strings.TrimPrefix(e.Prefix, "+")]; shadowed {
			continue
		}
		merged = append(merged, e)
	}
	for prefix, zone := range overrides {
		merged = append(merged, Entry{Prefix: prefix, Zone: zone})
	}
	return merged
}
