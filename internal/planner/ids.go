package planner

import "github.com/oklog/ulid/v2"

// newID returns a fresh itinerary identifier.  ULIDs sort by creation time,
// which keeps cache keys and schedule primary keys roughly ordered.
// ulid.Make draws from a process-wide monotonic source guarded by a mutex,
// so it is safe to call from concurrent requests.
func newID() string {
	return ulid.Make().String()
}
