// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// row becomes a 404, ErrConflict a 409.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert collides with an existing row,
// such as saving the same itinerary twice.  Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
