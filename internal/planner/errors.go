package planner

import (
	"errors"
	"fmt"
)

// ErrInput is the family of caller errors that stop a generation before
// any combination is analyzed.  Use errors.Is(err, ErrInput).
var ErrInput = errors.New("invalid planner input")

// ErrNoMovies is returned when the request carries no movies at all.
var ErrNoMovies = fmt.Errorf("%w: no movies supplied", ErrInput)

// ErrNoCombinations is returned when no movie has a showtime, or when every
// combination had to be excluded.
var ErrNoCombinations = fmt.Errorf("%w: no valid combinations", ErrInput)

// ErrTooManyCombinations is returned when the Cartesian product exceeds
// Config.MaxCombinations.
var ErrTooManyCombinations = errors.New("too many combinations")

// ErrItineraryNotFound is returned by Lookup when the itinerary is not in
// the result cache, either because it never existed or because it expired.
var ErrItineraryNotFound = errors.New("itinerary not found or expired; regenerate")

// MalformedTimeError reports a showtime whose clock string could not be
// parsed.  The offending combination is excluded from the batch.
type MalformedTimeError struct {
	MovieID    string
	MovieTitle string
	ShowtimeID string
	Value      string
	Err        error
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("showtime %s of %q has malformed time %q", e.ShowtimeID, e.MovieTitle, e.Value)
}

func (e *MalformedTimeError) Unwrap() error { return e.Err }
