package planner

import (
	"strings"
	"testing"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

func score(t *testing.T, prefs model.Preferences, movies ...model.Movie) model.Itinerary {
	t.Helper()
	it, err := Score(combo(movies...), model.DefaultFlexibility(), prefs, DefaultScoring(), 0)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if it.Score == nil {
		t.Fatal("scored itinerary without a score")
	}
	return it
}

func TestScoreMealBreak(t *testing.T) {
	// Exit 12:35, next start 13:30: a 55 min break inside the lunch window.
	it := score(t, model.Preferences{}, movie("1", 100, "11:00"), movie("2", 100, "13:30"))
	if *it.Score != 110 {
		t.Errorf("expected 110, got %d (%v)", *it.Score, it.Diagnostics)
	}
	if len(it.Breaks) != 1 || it.Breaks[0].Type != model.BreakMeal || it.Breaks[0].Minutes != 55 {
		t.Errorf("unexpected breaks %+v", it.Breaks)
	}
	if it.Name != "Marathon 2 movies (with meal break)" {
		t.Errorf("unexpected name %q", it.Name)
	}
}

func TestScorePreferences(t *testing.T) {
	movies := []model.Movie{movie("1", 100, "11:00"), movie("2", 100, "13:30")}

	it := score(t, model.Preferences{PreferMatinee: true}, movies...)
	if *it.Score != 120 {
		t.Errorf("matinee: expected 120, got %d", *it.Score)
	}
	it = score(t, model.Preferences{PreferMatinee: true, PreferredStartTime: "11:20"}, movies...)
	if *it.Score != 135 {
		t.Errorf("near preferred start: expected 135, got %d", *it.Score)
	}
	it = score(t, model.Preferences{PreferredStartTime: "11:45"}, movies...)
	if *it.Score != 115 {
		t.Errorf("far preferred start: expected 115, got %d", *it.Score)
	}
	it = score(t, model.Preferences{PreferredStartTime: "15:00"}, movies...)
	if *it.Score != 110 {
		t.Errorf("distant preferred start: expected 110, got %d", *it.Score)
	}
	it = score(t, model.Preferences{PreferredStartTime: "soon"}, movies...)
	if *it.Score != 110 || !hasPrefix(it.Diagnostics, model.PrefixNotice) {
		t.Errorf("malformed preferred start should be ignored with a notice, got %d %v", *it.Score, it.Diagnostics)
	}
}

func TestScoreTightGap(t *testing.T) {
	// Exit 15:35, next start 15:38: allowed by late entry but only 3 min apart.
	it := score(t, model.Preferences{}, movie("1", 100, "14:00"), movie("2", 100, "15:38"))
	if !it.Feasible {
		t.Fatalf("expected feasible, got %v", it.Diagnostics)
	}
	if *it.Score != 80 {
		t.Errorf("expected 80, got %d", *it.Score)
	}
	if !hasPrefix(it.Diagnostics, model.PrefixWarning) {
		t.Errorf("expected a warning, got %v", it.Diagnostics)
	}
}

func TestScoreLateEntryWarning(t *testing.T) {
	// Exit 20:00 with no early exit or break; 19:50 admits entry until 20:05.
	flex := model.Flexibility{AllowLateEntry: 15}
	it, err := Score(combo(movie("1", 120, "18:00"), movie("2", 100, "19:50")), flex, model.Preferences{}, DefaultScoring(), 0)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !it.Feasible || *it.Score != 80 {
		t.Errorf("expected feasible with score 80, got %v/%d (%v)", it.Feasible, *it.Score, it.Diagnostics)
	}
	found := false
	for _, d := range it.Diagnostics {
		if strings.Contains(d, "-10") {
			t.Errorf("negative gap leaked into %q", d)
		}
		if strings.HasPrefix(d, model.PrefixWarning) && strings.Contains(d, "entering Movie2 10 min after it starts at 19:50") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a late entry warning, got %v", it.Diagnostics)
	}
}

func TestScoreConflictMatchesAnalyze(t *testing.T) {
	movies := []model.Movie{movie("1", 120, "18:00"), movie("2", 100, "19:30")}
	scored := score(t, model.Preferences{}, movies...)
	plain, _ := Analyze(combo(movies...), model.DefaultFlexibility(), 0)

	if scored.Feasible != plain.Feasible || len(scored.Conflicts()) != len(plain.Conflicts()) {
		t.Errorf("scored and plain verdicts differ: %v vs %v", scored.Conflicts(), plain.Conflicts())
	}
	if *scored.Score != 50 {
		t.Errorf("expected 50, got %d", *scored.Score)
	}
}

func TestScoreLongMarathon(t *testing.T) {
	it := score(t, model.Preferences{},
		movie("1", 120, "10:00"), movie("2", 120, "12:10"), movie("3", 120, "14:20"), movie("4", 120, "16:30"))
	if it.TotalMinutes != 510 {
		t.Fatalf("expected 510 min span, got %d", it.TotalMinutes)
	}
	if *it.Score != 70 {
		t.Errorf("expected 70, got %d (%v)", *it.Score, it.Diagnostics)
	}
	found := false
	for _, d := range it.Diagnostics {
		if strings.HasPrefix(d, model.PrefixNotice) && strings.Contains(d, "510 min") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a long marathon notice, got %v", it.Diagnostics)
	}
	if it.Name != "Marathon 4 movies (intensive)" {
		t.Errorf("unexpected name %q", it.Name)
	}
	for _, b := range it.Breaks {
		if b.Type != model.BreakTravel {
			t.Errorf("expected travel breaks, got %+v", b)
		}
	}
}

func TestScoreLateNight(t *testing.T) {
	it := score(t, model.Preferences{AvoidLateNight: true}, movie("1", 120, "21:00"))
	if *it.Score != 80 {
		t.Errorf("expected 80, got %d", *it.Score)
	}
	if it.Name != "Single screening" {
		t.Errorf("unexpected name %q", it.Name)
	}
	it = score(t, model.Preferences{}, movie("1", 120, "21:00"))
	if *it.Score != 100 {
		t.Errorf("late night should only count when avoided, got %d", *it.Score)
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	it := score(t, model.Preferences{AvoidLateNight: true},
		movie("1", 150, "21:00"), movie("2", 150, "21:10"), movie("3", 150, "21:20"))
	if *it.Score != 0 {
		t.Errorf("expected 0, got %d", *it.Score)
	}
	if it.Feasible {
		t.Error("expected infeasible")
	}
}

func TestScoreEmptyCombination(t *testing.T) {
	it, err := Score(nil, model.DefaultFlexibility(), model.Preferences{}, DefaultScoring(), 0)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if it.ScoreValue() != 0 || it.Feasible {
		t.Errorf("unexpected empty result %+v", it)
	}
}

func TestClassifyBreak(t *testing.T) {
	cfg := DefaultScoring()
	tests := []struct {
		minutes, start int
		want           model.BreakType
	}{
		{20, 12 * 60, model.BreakTravel},
		{45, 16 * 60, model.BreakRest},
		{30, 18*60 + 10, model.BreakMeal},
		{30, 14*60 + 59, model.BreakMeal},
		{90, 10*60 + 59, model.BreakRest},
		{60, 21*60 + 30, model.BreakMeal},
		{60, 22 * 60, model.BreakRest},
	}
	for _, tt := range tests {
		if got := classifyBreak(tt.minutes, tt.start, cfg); got != tt.want {
			t.Errorf("classifyBreak(%d, %d) = %s, want %s", tt.minutes, tt.start, got, tt.want)
		}
	}
}

func TestScheduleName(t *testing.T) {
	cfg := DefaultScoring()
	rest := []model.Break{{Minutes: 40, Type: model.BreakRest}}
	if got := scheduleName(3, rest, cfg); got != "Marathon 3 movies (with meal break)" {
		t.Errorf("any long break names the meal variant, got %q", got)
	}
	if got := scheduleName(2, nil, cfg); got != "Double feature" {
		t.Errorf("got %q", got)
	}
	if got := scheduleName(5, []model.Break{{Minutes: 10}}, cfg); got != "Marathon 5 movies (intensive)" {
		t.Errorf("got %q", got)
	}
}
