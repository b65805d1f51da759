package clock

import "time"

// Clock supplies the current instant. All timestamps handled by the
// application are normalised to UTC through this package.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// Now returns the current UTC instant.
func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Intended for tests.
type Fixed struct {
	Instant time.Time
}

// Now returns the configured instant in UTC.
func (f Fixed) Now() time.Time {
	return f.Instant.UTC()
}

// EnsureUTC normalises a timestamp to UTC. Timestamps without a location are
// already interpreted as UTC by time.Time, so conversion is enough.
func EnsureUTC(t time.Time) time.Time {
	return t.UTC()
}

// EnsureUTCPtr normalises an optional timestamp to UTC.
func EnsureUTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// HasPassed reports whether the instant is due at the reference time. A nil
// timestamp counts as already passed, which makes a published post without a
// publication date immediately visible.
func HasPassed(t *time.Time, now time.Time) bool {
	if t == nil {
		return true
	}
	return !t.UTC().After(now.UTC())
}

// IsFuture reports whether the instant lies strictly after the reference
// time. Scheduling requires a real future moment, hence the strict
// comparison, unlike HasPassed.
func IsFuture(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}
	return t.UTC().After(now.UTC())
}
