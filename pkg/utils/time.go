package utils

import "time"

// sortableTimestamp is RFC3339 with fixed-width nanoseconds, so stored
// timestamps compare correctly as strings
const sortableTimestamp = "2006-01-02T15:04:05.000000000Z07:00"

// FormatDate renders a timestamp the way it is stored and sorted
func FormatDate(t time.Time) string {
	return t.UTC().Format(sortableTimestamp)
}

// ParseDate parses a timestamp written by FormatDate or any RFC3339 value
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
