package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
	"github.com/iliyamo/cinema-marathon-planner/internal/planner"
)

const moviesJSON = `[
  {"id": "1", "title": "Dune", "duration_minutes": 120, "showtimes": [{"id": "a", "time": "18:00"}]},
  {"id": "2", "title": "Arrival", "duration": "1h 40min", "showtimes": [{"id": "b", "time": "20:15"}, {"id": "c", "time": "19:30"}]}
]`

func TestRunPlanFeasibility(t *testing.T) {
	var out bytes.Buffer
	err := runPlan(context.Background(), strings.NewReader(moviesJSON), &out, planOptions{
		Mode:        planner.ModeFeasibility,
		Flexibility: model.DefaultFlexibility(),
	})
	if err != nil {
		t.Fatalf("runPlan: %v", err)
	}

	var res planner.Result
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if res.TotalCombinations != 2 || len(res.Itineraries) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	first := res.Itineraries[0]
	if !first.Feasible || first.StartTime != "18:00" || first.EndTime != "21:55" {
		t.Errorf("expected the 18:00 + 20:15 plan first, got %+v", first)
	}
	if res.Itineraries[1].Feasible {
		t.Error("expected the 19:30 plan to conflict")
	}
}

func TestRunPlanBadInput(t *testing.T) {
	err := runPlan(context.Background(), strings.NewReader("{"), &bytes.Buffer{}, planOptions{})
	if err == nil || !strings.Contains(err.Error(), "decode movies") {
		t.Errorf("expected decode error, got %v", err)
	}

	err = runPlan(context.Background(), strings.NewReader("[]"), &bytes.Buffer{}, planOptions{})
	if !errors.Is(err, planner.ErrNoMovies) {
		t.Errorf("expected ErrNoMovies, got %v", err)
	}
}
