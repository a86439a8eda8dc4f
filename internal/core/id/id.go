// Package id generates identifiers for farm entities: stock items, ledger
// transactions, consumption records, alerts.
package id

import (
	"github.com/google/uuid"
)

// ID identifies an entity. It is a UUIDv7, so sorting by ID sorts by
// creation time; for the append-only transaction ledger that means the
// primary key itself preserves insertion order without a created_at index.
type ID = uuid.UUID

// New returns a time-ordered UUIDv7.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to V4
		// rather than propagate an error through every constructor.
		return uuid.New()
	}
	return id
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
