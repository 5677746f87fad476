package model

import "strings"

// Diagnostic prefixes.  Every message in Itinerary.Diagnostics starts with
// exactly one of them so callers can separate hard conflicts from notices.
const (
	PrefixConflict = "CONFLICT: "
	PrefixWarning  = "WARNING: "
	PrefixSlack    = "SLACK: "
	PrefixNotice   = "NOTICE: "
)

// BreakType classifies the free time between two attendances.
type BreakType string

const (
	BreakTravel BreakType = "travel"
	BreakMeal   BreakType = "meal"
	BreakRest   BreakType = "rest"
)

// Break is an adequate gap between two consecutive items.
type Break struct {
	AfterMovie string    `json:"after_movie"`
	Minutes    int       `json:"minutes"`
	Type       BreakType `json:"type"`
}

// ItineraryItem is one attendance inside an itinerary.
//
// Fields:
//  MovieID / ShowtimeID – references into the caller's input.
//  Order                – 0-based position, chronological by official start.
//  StartTime / EndTime  – official start and end ("HH:MM", hours may exceed 23).
//  EntryDeadline        – latest acceptable arrival (start + late entry).
//  ExitTime             – planned departure (start + duration - early exit).
//  GapToNext            – break time required before the next item (0 on the last).
type ItineraryItem struct {
	MovieID         string `json:"movie_id"`
	MovieTitle      string `json:"movie_title"`
	ShowtimeID      string `json:"showtime_id"`
	Tag             string `json:"tag,omitempty"`
	Order           int    `json:"order"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	EntryDeadline   string `json:"entry_deadline"`
	ExitTime        string `json:"exit_time"`
	DurationMinutes int    `json:"duration_minutes"`
	GapToNext       int    `json:"gap_to_next"`
}

// Itinerary is the unit the planner returns: one showtime per movie,
// ordered chronologically, with a feasibility verdict.  Score and Breaks
// are only set by the scoring optimizer.  Values are never mutated after
// they leave the planner.  CinemaCode and Date record the generation
// request so a save cannot move the plan to another cinema or day.
type Itinerary struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Items        []ItineraryItem `json:"items"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	TotalMinutes int             `json:"total_duration"`
	Diagnostics  []string        `json:"diagnostics"`
	Feasible     bool            `json:"feasible"`
	Score        *int            `json:"score,omitempty"`
	Breaks       []Break         `json:"breaks,omitempty"`
	CinemaCode   string          `json:"cinema_code,omitempty"`
	Date         string          `json:"date,omitempty"`
}

// Conflicts returns the hard-conflict diagnostics.
func (it Itinerary) Conflicts() []string {
	var out []string
	for _, d := range it.Diagnostics {
		if strings.HasPrefix(d, PrefixConflict) {
			out = append(out, d)
		}
	}
	return out
}

// ScoreValue returns the desirability score, or 0 when unscored.
func (it Itinerary) ScoreValue() int {
	if it.Score == nil {
		return 0
	}
	return *it.Score
}
