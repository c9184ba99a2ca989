package utils

import (
	"database/sql"
	"time"
)

// DerefString converts a string to sql.NullString for database operations.
// Empty strings become NULL.
func DerefString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// DerefTime converts a time to sql.NullTime; the zero time becomes NULL.
func DerefTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// NullTimeValue returns the time held by n, or the zero time when NULL.
func NullTimeValue(n sql.NullTime) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return n.Time
}
