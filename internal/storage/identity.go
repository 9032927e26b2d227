// ABOUTME: Row id and timestamp generation for repository writes.
// ABOUTME: Ids are UUIDv7 text; timestamps are fixed-width UTC ISO-8601.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is fixed width so stored timestamps sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// NewID returns a time-prefixed unique id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Timestamp formats t in the stored layout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Now returns the current time in the stored layout.
func Now() string {
	return Timestamp(time.Now())
}
