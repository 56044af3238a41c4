package timeutil

import "time"

// All verification timestamps are stored and compared in UTC.

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// ToUTC converts any time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// WindowStart returns the start of a rate-limit window of the given
// length in minutes, ending at now.
func WindowStart(now time.Time, minutes int) time.Time {
	return now.Add(-time.Duration(minutes) * time.Minute)
}

// DelayElapsed reports whether a delay of delayMinutes starting at
// createdAt has fully elapsed at now. The boundary is exclusive: a
// delay is still active at exactly createdAt+delay.
func DelayElapsed(now, createdAt time.Time, delayMinutes int) bool {
	return now.After(createdAt.Add(time.Duration(delayMinutes) * time.Minute))
}

// Common layouts for formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
