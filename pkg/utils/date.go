package utils

import "time"

// CanonicalDateLayout is the single date encoding used for every date column
// in the store. Comparison and sorting in the reporting queries rely on it.
const CanonicalDateLayout = "2006-01-02"

// CanonicalDate formats a time as a canonical calendar date in UTC.
func CanonicalDate(t time.Time) string {
	return t.UTC().Format(CanonicalDateLayout)
}

// CanonicalDateFromUnix converts a provider unix timestamp (seconds) to a
// canonical calendar date.
func CanonicalDateFromUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(CanonicalDateLayout)
}

// ParseCanonicalDate parses a canonical calendar date string.
func ParseCanonicalDate(s string) (time.Time, error) {
	return time.Parse(CanonicalDateLayout, s)
}

// IsCanonicalDate reports whether s is a well-formed canonical date.
func IsCanonicalDate(s string) bool {
	_, err := time.Parse(CanonicalDateLayout, s)
	return err == nil
}
