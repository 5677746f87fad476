package model

import "github.com/iliyamo/cinema-marathon-planner/internal/timeutil"

// Showtime is one fixed screening of a movie on the planned day.
//
// Fields:
//  ID   – session identifier from the data source.
//  Time – official start as "HH:MM".
//  Tag  – optional presentation variant (e.g. "3D", "DUB", "IMAX").
type Showtime struct {
	ID   string `json:"id"`            // sessions.id
	Time string `json:"time"`          // sessions.time
	Tag  string `json:"tag,omitempty"` // sessions.session_type
}

// Movie is the scheduling view of a film: its runtime and the showtimes
// available at a single cinema on a single day.  The duration is either a
// structured minute count or free-form text that still needs parsing.
type Movie struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	DurationText    string     `json:"duration,omitempty"`
	Showtimes       []Showtime `json:"showtimes"`
}

// Duration resolves the runtime, preferring the structured minute count.
func (m Movie) Duration() timeutil.Duration {
	if m.DurationMinutes != nil {
		return timeutil.FromMinutes(*m.DurationMinutes)
	}
	return timeutil.ParseDuration(m.DurationText)
}
