// Package planner builds multi-movie viewing plans for one cinema on one
// day.  It enumerates every one-showtime-per-movie combination, checks
// which ones can be attended back to back under a flexibility
// configuration, ranks them and keeps the best in a result cache so a
// later save can refer to them by ID.
//
// The analysis functions (Combinations, Analyze, Score, RankBy*) are pure
// and safe for concurrent use.  Planner adds the cache and logging around
// them.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-marathon-planner/internal/cache"
	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// Mode selects the analysis used for a generation.
type Mode string

const (
	// ModeScored ranks by desirability score (top 15 by default).
	ModeScored Mode = "scored"
	// ModeFeasibility ranks feasible first, then by total duration (top 10).
	ModeFeasibility Mode = "feasibility"
)

// Config bounds and tunes a Planner.
type Config struct {
	TopFeasible     int  // itineraries kept in ModeFeasibility
	TopScored       int  // itineraries kept in ModeScored
	MaxCombinations int  // reject larger products; <= 0 disables the guard
	DropZeroScore   bool // discard scored itineraries whose score floored at 0
	Scoring         ScoringConfig
}

// DefaultConfig returns the reference limits.
func DefaultConfig() Config {
	return Config{
		TopFeasible:     10,
		TopScored:       15,
		MaxCombinations: 50000,
		Scoring:         DefaultScoring(),
	}
}

// Request is one generation.  A nil Flexibility means the 5/5/5 default;
// an empty Mode means ModeScored.  CinemaCode and Date are stamped on every
// returned itinerary.
type Request struct {
	Movies      []model.Movie
	Flexibility *model.Flexibility
	Preferences model.Preferences
	Mode        Mode
	CinemaCode  string
	Date        string
}

// Result is the ranked output of a generation.
type Result struct {
	Itineraries       []model.Itinerary `json:"itineraries"`
	TotalCombinations int               `json:"total_combinations"`
	Notices           []string          `json:"notices"`  // skipped movies and duration fallbacks
	Excluded          []string          `json:"excluded"` // combinations dropped because of malformed times
	ExpiresAt         time.Time         `json:"expires_at"`
}

// Planner runs generations and serves saved lookups.
type Planner struct {
	cfg   Config
	store cache.Store
	log   zerolog.Logger
}

// New returns a Planner writing its results to store.
func New(cfg Config, store cache.Store, log zerolog.Logger) *Planner {
	if store == nil {
		panic("nil cache store passed to planner.New")
	}
	return &Planner{cfg: cfg, store: store, log: log.With().Str("component", "planner").Logger()}
}

// ctxCheckEvery is how many combinations are analyzed between context checks.
const ctxCheckEvery = 256

// Generate enumerates, analyzes, ranks and caches itineraries for req.
// Malformed showtimes exclude only the combinations that contain them.
func (p *Planner) Generate(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	if len(req.Movies) == 0 {
		return nil, ErrNoMovies
	}
	flex := model.DefaultFlexibility()
	if req.Flexibility != nil {
		flex = *req.Flexibility
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeScored
	}
	if mode != ModeScored && mode != ModeFeasibility {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInput, mode)
	}

	res := &Result{Itineraries: []model.Itinerary{}, Notices: movieNotices(req.Movies), Excluded: []string{}}

	total := ProductSize(req.Movies)
	if total == 0 {
		return nil, ErrNoCombinations
	}
	if p.cfg.MaxCombinations > 0 && total > p.cfg.MaxCombinations {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", ErrTooManyCombinations, total, p.cfg.MaxCombinations)
	}
	res.TotalCombinations = total

	combos := Combinations(req.Movies)
	analyzed := make([]model.Itinerary, 0, len(combos))
	for i, combo := range combos {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("generation abandoned after %d combinations: %w", i, err)
			}
		}
		var (
			it  model.Itinerary
			err error
		)
		if mode == ModeScored {
			it, err = Score(combo, flex, req.Preferences, p.cfg.Scoring, i)
		} else {
			it, err = Analyze(combo, flex, i)
		}
		var mt *MalformedTimeError
		if errors.As(err, &mt) {
			res.Excluded = append(res.Excluded, fmt.Sprintf("combination %d excluded: %v", i+1, mt))
			continue
		}
		if err != nil {
			return nil, err
		}
		if mode == ModeScored && p.cfg.DropZeroScore && it.ScoreValue() == 0 {
			continue
		}
		analyzed = append(analyzed, it)
	}
	if len(analyzed) == 0 {
		return nil, fmt.Errorf("%w: all %d combinations were excluded", ErrNoCombinations, total)
	}

	var ranked []model.Itinerary
	if mode == ModeScored {
		ranked = RankByScore(analyzed, p.cfg.TopScored)
	} else {
		ranked = RankByFeasibility(analyzed, p.cfg.TopFeasible)
	}

	for i := range ranked {
		ranked[i].CinemaCode = req.CinemaCode
		ranked[i].Date = req.Date
	}
	for _, it := range ranked {
		e, err := p.store.Put(ctx, it)
		if err != nil {
			return nil, fmt.Errorf("cache itinerary %s: %w", it.ID, err)
		}
		if res.ExpiresAt.IsZero() || e.ExpiresAt.Before(res.ExpiresAt) {
			res.ExpiresAt = e.ExpiresAt
		}
	}
	res.Itineraries = ranked

	feasible := 0
	for _, it := range ranked {
		if it.Feasible {
			feasible++
		}
	}
	p.log.Info().
		Str("mode", string(mode)).
		Int("movies", len(req.Movies)).
		Int("combinations", total).
		Int("excluded", len(res.Excluded)).
		Int("returned", len(ranked)).
		Int("feasible", feasible).
		Dur("took", time.Since(started)).
		Msg("itineraries generated")
	return res, nil
}

// Lookup returns a cached itinerary by ID, or ErrItineraryNotFound when it
// is missing or expired.
func (p *Planner) Lookup(ctx context.Context, id string) (model.Itinerary, error) {
	e, err := p.store.Get(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return model.Itinerary{}, ErrItineraryNotFound
	}
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("lookup itinerary %s: %w", id, err)
	}
	return e.Itinerary, nil
}

// Forget drops a cached itinerary once it has been persisted.
func (p *Planner) Forget(ctx context.Context, id string) {
	if err := p.store.Delete(ctx, id); err != nil {
		p.log.Warn().Err(err).Str("itinerary_id", id).Msg("cache delete failed")
	}
}

func movieNotices(movies []model.Movie) []string {
	out := []string{}
	for _, m := range movies {
		if len(m.Showtimes) == 0 {
			out = append(out, fmt.Sprintf("%s%q has no showtimes and was skipped", model.PrefixNotice, m.Title))
			continue
		}
		if d := m.Duration(); d.Defaulted() {
			out = append(out, fmt.Sprintf("%sduration of %q could not be parsed (%q), assumed %d min",
				model.PrefixNotice, m.Title, d.Raw, d.Minutes))
		}
	}
	return out
}
