package helpers

import (
	"database/sql"
	"math"
	"time"
)

// GetContentNullString converts a string to sql.NullString, treating the
// empty string as NULL.
func GetContentNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// GetNullTime converts a *time.Time to sql.NullTime.
func GetNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// ParseDuration parses a duration string, falling back to a default when the
// string is empty or malformed.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// RoundPercent rounds a percentage to two decimals.
func RoundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}

// ProgressPercent computes the completion percentage for a course, defined as
// 0 when the course has no lessons.
func ProgressPercent(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return RoundPercent(float64(completed) / float64(total) * 100)
}
