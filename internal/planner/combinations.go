package planner

import "github.com/iliyamo/cinema-marathon-planner/internal/model"

// Pick is one (movie, showtime) pair of a combination.
type Pick struct {
	Movie    *model.Movie
	Showtime model.Showtime
}

// Combination holds exactly one pick per movie, in input order.
type Combination []Pick

// Combinations returns the Cartesian product of the movies' showtimes: for
// showtime counts k1..kn it yields k1*...*kn combinations of length n.
// Input order is preserved and identical showtimes are not merged.  Movies
// without showtimes are skipped, so the product is taken over the rest;
// when no movie has a showtime the result is empty.
//
// The product is not capped here. Callers bound it through
// ProductSize before calling.
func Combinations(movies []model.Movie) []Combination {
	usable := make([]*model.Movie, 0, len(movies))
	for i := range movies {
		if len(movies[i].Showtimes) > 0 {
			usable = append(usable, &movies[i])
		}
	}
	if len(usable) == 0 {
		return nil
	}

	out := make([]Combination, 0, min(ProductSize(movies), preallocLimit))
	current := make(Combination, 0, len(usable))
	var expand func(depth int)
	expand = func(depth int) {
		if depth == len(usable) {
			combo := make(Combination, len(current))
			copy(combo, current)
			out = append(out, combo)
			return
		}
		movie := usable[depth]
		for _, st := range movie.Showtimes {
			current = append(current, Pick{Movie: movie, Showtime: st})
			expand(depth + 1)
			current = current[:len(current)-1]
		}
	}
	expand(0)
	return out
}

// ProductSize returns the number of combinations Combinations would
// produce.  It saturates at maxProduct instead of overflowing.
func ProductSize(movies []model.Movie) int {
	size, found := 1, false
	for _, m := range movies {
		k := len(m.Showtimes)
		if k == 0 {
			continue
		}
		found = true
		if size > maxProduct/k {
			return maxProduct
		}
		size *= k
	}
	if !found {
		return 0
	}
	return size
}

const (
	maxProduct    = int(^uint(0) >> 1)
	preallocLimit = 4096
)
