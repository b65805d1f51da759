package clock

import (
	"testing"
	"time"
)

func TestHasPassed(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		instant  *time.Time
		expected bool
	}{
		{name: "nil counts as passed", instant: nil, expected: true},
		{name: "past instant", instant: ptr(now.Add(-time.Hour)), expected: true},
		{name: "exact instant", instant: ptr(now), expected: true},
		{name: "future instant", instant: ptr(now.Add(time.Hour)), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPassed(tt.instant, now); got != tt.expected {
				t.Errorf("HasPassed() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsFuture(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		instant  *time.Time
		expected bool
	}{
		{name: "nil is never future", instant: nil, expected: false},
		{name: "past instant", instant: ptr(now.Add(-time.Minute)), expected: false},
		{name: "exact instant is not strictly future", instant: ptr(now), expected: false},
		{name: "future instant", instant: ptr(now.Add(time.Minute)), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFuture(tt.instant, now); got != tt.expected {
				t.Errorf("IsFuture() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEnsureUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2026, 3, 15, 9, 0, 0, 0, loc)

	got := EnsureUTC(local)
	if got.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", got.Location())
	}
	if got.Hour() != 12 {
		t.Errorf("expected 12h UTC, got %dh", got.Hour())
	}
	if !got.Equal(local) {
		t.Error("normalisation must not change the instant")
	}
}

func TestEnsureUTCPtr(t *testing.T) {
	if EnsureUTCPtr(nil) != nil {
		t.Error("nil input must stay nil")
	}

	loc := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2026, 3, 15, 9, 0, 0, 0, loc)
	got := EnsureUTCPtr(&local)
	if got == nil || got.Location() != time.UTC {
		t.Fatal("expected UTC pointer")
	}
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := Fixed{Instant: instant}
	if !clk.Now().Equal(instant) {
		t.Error("fixed clock must return the configured instant")
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
