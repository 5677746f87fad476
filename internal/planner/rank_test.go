package planner

import (
	"testing"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

func itin(id string, feasible bool, total int, score *int) model.Itinerary {
	return model.Itinerary{ID: id, Feasible: feasible, TotalMinutes: total, Score: score}
}

func ids(its []model.Itinerary) []string {
	out := make([]string, len(its))
	for i, it := range its {
		out[i] = it.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankByFeasibility(t *testing.T) {
	in := []model.Itinerary{
		itin("a", false, 100, nil),
		itin("b", true, 300, nil),
		itin("c", true, 200, nil),
		itin("d", false, 50, nil),
		itin("e", true, 200, nil),
	}
	got := ids(RankByFeasibility(in, 10))
	want := []string{"c", "e", "b", "d", "a"}
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if in[0].ID != "a" {
		t.Error("input slice must not be reordered")
	}
	if got := RankByFeasibility(in, 2); len(got) != 2 || got[0].ID != "c" {
		t.Errorf("unexpected truncation %v", ids(got))
	}
}

func TestRankByScoreStable(t *testing.T) {
	s := func(n int) *int { return &n }
	in := []model.Itinerary{
		itin("a", true, 0, s(80)),
		itin("b", true, 0, s(110)),
		itin("c", true, 0, s(80)),
		itin("d", false, 0, s(0)),
		itin("e", true, 0, s(110)),
	}
	got := ids(RankByScore(in, 15))
	want := []string{"b", "e", "a", "c", "d"}
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := RankByScore(in, 1); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("unexpected truncation %v", ids(got))
	}
}

func TestRankEmpty(t *testing.T) {
	if got := RankByScore(nil, 5); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
	if got := RankByFeasibility([]model.Itinerary{}, 0); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}
