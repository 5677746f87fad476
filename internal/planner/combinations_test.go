package planner

import (
	"testing"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

func TestCombinationsCartesianCompleteness(t *testing.T) {
	movies := []model.Movie{
		movie("1", 100, "10:00", "14:00"),
		movie("2", 90, "12:00", "16:00", "20:00"),
		movie("3", 110, "18:00", "21:00"),
	}
	combos := Combinations(movies)
	if len(combos) != 12 {
		t.Fatalf("expected 2*3*2=12 combinations, got %d", len(combos))
	}
	if ProductSize(movies) != 12 {
		t.Errorf("expected product size 12, got %d", ProductSize(movies))
	}

	seen := make(map[string]bool)
	for _, c := range combos {
		if len(c) != 3 {
			t.Fatalf("expected length 3, got %d", len(c))
		}
		key := ""
		for i, p := range c {
			if p.Movie.ID != movies[i].ID {
				t.Errorf("pick %d belongs to movie %s, want %s", i, p.Movie.ID, movies[i].ID)
			}
			key += p.Showtime.ID + "|"
		}
		if seen[key] {
			t.Errorf("duplicate combination %s", key)
		}
		seen[key] = true
	}

	// Depth-first order: the last movie varies fastest.
	if combos[0][2].Showtime.Time != "18:00" || combos[1][2].Showtime.Time != "21:00" {
		t.Errorf("unexpected ordering: %v / %v", combos[0][2].Showtime, combos[1][2].Showtime)
	}
	if combos[0][0].Showtime.Time != "10:00" || combos[11][0].Showtime.Time != "14:00" {
		t.Errorf("unexpected ordering of first movie")
	}
}

func TestCombinationsKeepsIdenticalShowtimes(t *testing.T) {
	movies := []model.Movie{movie("1", 90, "18:00"), movie("2", 90, "18:00")}
	combos := Combinations(movies)
	if len(combos) != 1 || len(combos[0]) != 2 {
		t.Fatalf("expected one combination of two picks, got %v", combos)
	}
	if combos[0][0].Showtime.Time != combos[0][1].Showtime.Time {
		t.Error("identical showtimes should both be kept")
	}
}

func TestCombinationsSkipsEmptyMovies(t *testing.T) {
	movies := []model.Movie{movie("1", 90, "10:00", "12:00"), movie("2", 90), movie("3", 90, "15:00")}
	combos := Combinations(movies)
	if len(combos) != 2 {
		t.Fatalf("expected 2 combinations, got %d", len(combos))
	}
	for _, c := range combos {
		if len(c) != 2 || c[1].Movie.ID != "3" {
			t.Errorf("expected movie 2 skipped, got %+v", c)
		}
	}
}

func TestCombinationsEmpty(t *testing.T) {
	if got := Combinations(nil); len(got) != 0 {
		t.Errorf("expected no combinations for no movies, got %d", len(got))
	}
	if got := Combinations([]model.Movie{movie("1", 90)}); len(got) != 0 {
		t.Errorf("expected no combinations without showtimes, got %d", len(got))
	}
	if ProductSize(nil) != 0 {
		t.Error("expected product size 0")
	}
}

func TestProductSizeSaturates(t *testing.T) {
	times := make([]string, 1000)
	for i := range times {
		times[i] = "10:00"
	}
	movies := make([]model.Movie, 8)
	for i := range movies {
		movies[i] = movie(string(rune('a'+i)), 90, times...)
	}
	if got := ProductSize(movies); got != maxProduct {
		t.Errorf("expected saturation, got %d", got)
	}
}
