// Package cache holds generated itineraries for a bounded lifetime so a
// later save request can retrieve exactly what the user picked without
// recomputing it.  It is a best-effort store: durable storage is the system
// of record once an itinerary is saved.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// DefaultTTL is how long an itinerary stays retrievable after generation.
const DefaultTTL = 2 * time.Hour

// ErrNotFound is returned by Get when no live entry exists for the key.
// Expired entries are indistinguishable from missing ones.
var ErrNotFound = errors.New("cache entry not found")

// Entry is a cached itinerary with its lifetime.
type Entry struct {
	Itinerary model.Itinerary `json:"itinerary"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store is the capability the planner needs from a result cache.  Entries
// are keyed by the itinerary ID.
type Store interface {
	Put(ctx context.Context, it model.Itinerary) (Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Delete(ctx context.Context, id string) error
}
