package planner

import (
	"fmt"
	"slices"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
	"github.com/iliyamo/cinema-marathon-planner/internal/timeutil"
)

// slot is a pick with its timing resolved against a flexibility config.
// All values are minutes since 00:00.
type slot struct {
	pick     Pick
	duration timeutil.Duration
	start    int // official start
	end      int // official end
	entry    int // latest acceptable arrival
	exit     int // planned departure
}

// pair is the verdict for two consecutive slots.
type pair struct {
	prev, next *slot
	minNext    int  // earliest moment next may be entered
	conflict   bool // next admits entry only before minNext
	shortfall  int  // minutes missing when conflict
	slack      int  // next official start minus minNext when not conflicting
}

// buildTimeline resolves every pick and sorts the result by official start.
// The sort is stable so picks with equal starts keep their input order.
func buildTimeline(combo Combination, flex model.Flexibility) ([]slot, error) {
	slots := make([]slot, 0, len(combo))
	for _, p := range combo {
		start, err := timeutil.ToMinutes(p.Showtime.Time)
		if err != nil {
			return nil, &MalformedTimeError{
				MovieID:    p.Movie.ID,
				MovieTitle: p.Movie.Title,
				ShowtimeID: p.Showtime.ID,
				Value:      p.Showtime.Time,
				Err:        err,
			}
		}
		d := p.Movie.Duration()
		slots = append(slots, slot{
			pick:     p,
			duration: d,
			start:    start,
			end:      start + d.Minutes,
			entry:    start + flex.AllowLateEntry,
			exit:     start + d.Minutes - flex.AllowEarlyExit,
		})
	}
	slices.SortStableFunc(slots, func(a, b slot) int { return a.start - b.start })
	return slots, nil
}

// evaluatePairs walks consecutive slots.  The next item may be entered no
// earlier than the previous exit plus the break time; if its entry deadline
// is before that moment the pair is a hard conflict.
func evaluatePairs(slots []slot, flex model.Flexibility) []pair {
	if len(slots) < 2 {
		return nil
	}
	out := make([]pair, 0, len(slots)-1)
	for i := 1; i < len(slots); i++ {
		prev, next := &slots[i-1], &slots[i]
		p := pair{prev: prev, next: next, minNext: prev.exit + flex.BreakTime}
		if next.entry < p.minNext {
			p.conflict = true
			p.shortfall = p.minNext - next.entry
		} else {
			p.slack = next.start - p.minNext
		}
		out = append(out, p)
	}
	return out
}

// Analyze computes the plain feasibility verdict of one combination.
// index is the combination's position in generation order and drives the
// positional name.  A malformed showtime yields a *MalformedTimeError and
// no itinerary.
func Analyze(combo Combination, flex model.Flexibility, index int) (model.Itinerary, error) {
	if len(combo) == 0 {
		return emptyItinerary(index), nil
	}
	slots, err := buildTimeline(combo, flex)
	if err != nil {
		return model.Itinerary{}, err
	}

	feasible := true
	diags := durationNotices(slots)
	for _, p := range evaluatePairs(slots, flex) {
		if p.conflict {
			feasible = false
			diags = append(diags, conflictMessage(p, flex))
			continue
		}
		diags = append(diags, slackMessage(p))
	}

	it := newItinerary(slots, flex, index)
	it.Diagnostics = diags
	it.Feasible = feasible
	return it, nil
}

// newItinerary fills the parts shared by the plain and scored analyses.
func newItinerary(slots []slot, flex model.Flexibility, index int) model.Itinerary {
	items := make([]model.ItineraryItem, len(slots))
	for i, s := range slots {
		gap := flex.BreakTime
		if i == len(slots)-1 {
			gap = 0
		}
		items[i] = model.ItineraryItem{
			MovieID:         s.pick.Movie.ID,
			MovieTitle:      s.pick.Movie.Title,
			ShowtimeID:      s.pick.Showtime.ID,
			Tag:             s.pick.Showtime.Tag,
			Order:           i,
			StartTime:       timeutil.FormatMinutes(s.start),
			EndTime:         timeutil.FormatMinutes(s.end),
			EntryDeadline:   timeutil.FormatMinutes(s.entry),
			ExitTime:        timeutil.FormatMinutes(s.exit),
			DurationMinutes: s.duration.Minutes,
			GapToNext:       gap,
		}
	}
	first, last := slots[0], slots[len(slots)-1]
	return model.Itinerary{
		ID:           newID(),
		Name:         fmt.Sprintf("Itinerary %d", index+1),
		Items:        items,
		StartTime:    timeutil.FormatMinutes(first.start),
		EndTime:      timeutil.FormatMinutes(last.end),
		TotalMinutes: last.end - first.start,
		Diagnostics:  []string{},
	}
}

func emptyItinerary(index int) model.Itinerary {
	return model.Itinerary{
		ID:          newID(),
		Name:        fmt.Sprintf("Itinerary %d", index+1),
		Items:       []model.ItineraryItem{},
		Diagnostics: []string{model.PrefixConflict + "empty combination, nothing to schedule"},
		Feasible:    false,
	}
}

func durationNotices(slots []slot) []string {
	out := []string{}
	for _, s := range slots {
		if s.duration.Defaulted() {
			out = append(out, fmt.Sprintf("%sduration of %q could not be parsed (%q), assumed %d min",
				model.PrefixNotice, s.pick.Movie.Title, s.duration.Raw, s.duration.Minutes))
		}
	}
	return out
}

func conflictMessage(p pair, flex model.Flexibility) string {
	return fmt.Sprintf("%s%s (%s) lets out at %s; with a %d min break %s (%s) cannot be entered before %s but admits entry only until %s, short by %d min",
		model.PrefixConflict,
		p.prev.pick.Movie.Title, timeutil.FormatMinutes(p.prev.start), timeutil.FormatMinutes(p.prev.exit),
		flex.BreakTime,
		p.next.pick.Movie.Title, timeutil.FormatMinutes(p.next.start), timeutil.FormatMinutes(p.minNext),
		timeutil.FormatMinutes(p.next.entry), p.shortfall)
}

func slackMessage(p pair) string {
	if p.slack < 0 {
		return fmt.Sprintf("%sentering %s %d min after it starts at %s, within the late entry allowance",
			model.PrefixSlack, p.next.pick.Movie.Title, -p.slack, timeutil.FormatMinutes(p.next.start))
	}
	return fmt.Sprintf("%s%d min spare between %s and %s",
		model.PrefixSlack, p.slack, p.prev.pick.Movie.Title, p.next.pick.Movie.Title)
}
