package policy

import (
	"testing"
	"time"
)

func testEntries() map[string]Entry {
	return map[string]Entry{
		DefaultReason:             {DelaysMinutes: []int{60, 120, 240}, FallbackAction: "send_sms_fallback"},
		"customer-did-not-answer": {DelaysMinutes: []int{30, 60, 120}, FallbackAction: "send_sms_fallback"},
		"customer-busy":           {DelaysMinutes: []int{15}, FallbackAction: "send_sms_fallback"},
	}
}

func mustTable(t *testing.T, maxAttempts int) *Table {
	t.Helper()
	table, err := New(maxAttempts, testEntries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return table
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0, testEntries()); err == nil {
		t.Error("expected zero max attempts to be rejected")
	}
	if _, err := New(3, map[string]Entry{"busy": {DelaysMinutes: []int{5}, FallbackAction: "sms"}}); err == nil {
		t.Error("expected missing default entry to be rejected")
	}
	if _, err := New(3, map[string]Entry{DefaultReason: {FallbackAction: "sms"}}); err == nil {
		t.Error("expected empty delay schedule to be rejected")
	}
	if _, err := New(3, map[string]Entry{DefaultReason: {DelaysMinutes: []int{-1}, FallbackAction: "sms"}}); err == nil {
		t.Error("expected negative delay to be rejected")
	}
	if _, err := New(3, map[string]Entry{DefaultReason: {DelaysMinutes: []int{5}}}); err == nil {
		t.Error("expected missing fallback action to be rejected")
	}
}

func TestDelayForAttemptClampsToLast(t *testing.T) {
	table := mustTable(t, 3)

	if got := table.DelayForAttempt("customer-did-not-answer", 5); got != table.DelayForAttempt("customer-did-not-answer", 2) {
		t.Fatalf("expected index beyond schedule to clamp to last delay, got %v", got)
	}
	if got := table.DelayForAttempt("customer-busy", 10); got != 15*time.Minute {
		t.Fatalf("expected single-entry schedule to clamp to 15m, got %v", got)
	}
}

func TestDelayForAttemptUnknownReasonUsesDefault(t *testing.T) {
	table := mustTable(t, 3)

	if got := table.DelayForAttempt("carrier-dropped", 0); got != 60*time.Minute {
		t.Fatalf("expected unknown reason to fall through to default 60m, got %v", got)
	}
	if got := table.FallbackFor("carrier-dropped"); got != "send_sms_fallback" {
		t.Fatalf("expected default fallback, got %q", got)
	}
}

func TestIsExhaustedBoundary(t *testing.T) {
	table := mustTable(t, 3)

	if table.IsExhausted(2) {
		t.Error("attempts below ceiling should not be exhausted")
	}
	if !table.IsExhausted(3) {
		t.Error("attempts at ceiling should be exhausted")
	}
	if !table.IsExhausted(4) {
		t.Error("attempts beyond ceiling should be exhausted")
	}
}
