package planner

import (
	"fmt"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
	"github.com/iliyamo/cinema-marathon-planner/internal/timeutil"
)

// ScoringConfig holds the heuristic weights and thresholds of the scored
// mode.  Minute values are offsets since 00:00 or plain durations; hour
// windows are inclusive.
type ScoringConfig struct {
	Baseline int

	ConflictPenalty int // per hard conflict
	TightGapPenalty int // per gap narrower than MinBreak
	MealBonus       int // per meal break

	MinBreak  int // minutes
	MealBreak int // minutes

	LunchStartHour, LunchEndHour   int
	DinnerStartHour, DinnerEndHour int

	PreferredNearWindow int
	PreferredNearBonus  int
	PreferredFarWindow  int
	PreferredFarBonus   int

	LateNightCutoff  int // minutes since 00:00
	LateNightPenalty int

	MatineeCutoff int // minutes since 00:00
	MatineeBonus  int

	MaxContinuous int // minutes
	LongFactor    float64
	LongPenalty   int
}

// DefaultScoring returns the reference weights.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Baseline:            100,
		ConflictPenalty:     50,
		TightGapPenalty:     20,
		MealBonus:           10,
		MinBreak:            5,
		MealBreak:           30,
		LunchStartHour:      11,
		LunchEndHour:        14,
		DinnerStartHour:     18,
		DinnerEndHour:       21,
		PreferredNearWindow: 30,
		PreferredNearBonus:  15,
		PreferredFarWindow:  60,
		PreferredFarBonus:   5,
		LateNightCutoff:     timeutil.MustMinutes("22:00"),
		LateNightPenalty:    20,
		MatineeCutoff:       timeutil.MustMinutes("14:00"),
		MatineeBonus:        10,
		MaxContinuous:       240,
		LongFactor:          1.5,
		LongPenalty:         30,
	}
}

// Score analyzes a combination like Analyze and additionally computes a
// desirability score, the classified breaks and a descriptive name.  The
// feasibility flag and hard conflicts are identical to Analyze's.
func Score(combo Combination, flex model.Flexibility, prefs model.Preferences, cfg ScoringConfig, index int) (model.Itinerary, error) {
	if len(combo) == 0 {
		it := emptyItinerary(index)
		zero := 0
		it.Score = &zero
		return it, nil
	}
	slots, err := buildTimeline(combo, flex)
	if err != nil {
		return model.Itinerary{}, err
	}

	score := cfg.Baseline
	feasible := true
	diags := durationNotices(slots)
	breaks := []model.Break{}

	for _, p := range evaluatePairs(slots, flex) {
		gap := p.next.start - p.prev.exit
		switch {
		case p.conflict:
			feasible = false
			score -= cfg.ConflictPenalty
			diags = append(diags, conflictMessage(p, flex))
		case gap < 0:
			score -= cfg.TightGapPenalty
			diags = append(diags, fmt.Sprintf("%sentering %s %d min after it starts at %s, within the late entry allowance",
				model.PrefixWarning, p.next.pick.Movie.Title, -gap, timeutil.FormatMinutes(p.next.start)))
		case gap < cfg.MinBreak:
			score -= cfg.TightGapPenalty
			diags = append(diags, fmt.Sprintf("%sonly %d min between %s and %s",
				model.PrefixWarning, gap, p.prev.pick.Movie.Title, p.next.pick.Movie.Title))
		default:
			kind := classifyBreak(gap, p.prev.exit, cfg)
			breaks = append(breaks, model.Break{
				AfterMovie: p.prev.pick.Movie.Title,
				Minutes:    gap,
				Type:       kind,
			})
			if kind == model.BreakMeal {
				score += cfg.MealBonus
			}
			diags = append(diags, slackMessage(p))
		}
	}

	bonus, notes := preferenceAdjustment(slots, prefs, cfg)
	score += bonus
	diags = append(diags, notes...)

	it := newItinerary(slots, flex, index)
	if float64(it.TotalMinutes) > float64(cfg.MaxContinuous)*cfg.LongFactor {
		score -= cfg.LongPenalty
		diags = append(diags, fmt.Sprintf("%s%d min marathon is very long, consider splitting it across two days",
			model.PrefixNotice, it.TotalMinutes))
	}
	if score < 0 {
		score = 0
	}

	it.Name = scheduleName(len(slots), breaks, cfg)
	it.Diagnostics = diags
	it.Feasible = feasible
	it.Score = &score
	it.Breaks = breaks
	return it, nil
}

// classifyBreak labels a gap starting at startMinute.  Long gaps are meals
// inside the lunch or dinner window and rest otherwise; short gaps are
// travel between rooms.
func classifyBreak(minutes, startMinute int, cfg ScoringConfig) model.BreakType {
	if minutes < cfg.MealBreak {
		return model.BreakTravel
	}
	hour := startMinute / 60
	if (hour >= cfg.LunchStartHour && hour <= cfg.LunchEndHour) ||
		(hour >= cfg.DinnerStartHour && hour <= cfg.DinnerEndHour) {
		return model.BreakMeal
	}
	return model.BreakRest
}

func preferenceAdjustment(slots []slot, prefs model.Preferences, cfg ScoringConfig) (int, []string) {
	first, last := slots[0], slots[len(slots)-1]
	delta := 0
	var notes []string

	if prefs.PreferredStartTime != "" {
		want, err := timeutil.ToMinutes(prefs.PreferredStartTime)
		if err != nil {
			notes = append(notes, fmt.Sprintf("%spreferred start time %q ignored: not HH:MM",
				model.PrefixNotice, prefs.PreferredStartTime))
		} else {
			diff := first.start - want
			if diff < 0 {
				diff = -diff
			}
			switch {
			case diff <= cfg.PreferredNearWindow:
				delta += cfg.PreferredNearBonus
			case diff <= cfg.PreferredFarWindow:
				delta += cfg.PreferredFarBonus
			}
		}
	}
	if prefs.AvoidLateNight && last.end > cfg.LateNightCutoff {
		delta -= cfg.LateNightPenalty
	}
	if prefs.PreferMatinee && first.start < cfg.MatineeCutoff {
		delta += cfg.MatineeBonus
	}
	return delta, notes
}

func scheduleName(movies int, breaks []model.Break, cfg ScoringConfig) string {
	for _, b := range breaks {
		if b.Minutes >= cfg.MealBreak {
			return fmt.Sprintf("Marathon %d movies (with meal break)", movies)
		}
	}
	switch {
	case movies >= 3:
		return fmt.Sprintf("Marathon %d movies (intensive)", movies)
	case movies == 2:
		return "Double feature"
	default:
		return "Single screening"
	}
}
