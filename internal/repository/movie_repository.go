package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// MovieRepo reads the movies playing at a cinema on a given day together
// with their sessions.  Dates are "YYYY-MM-DD" strings and session times
// are "HH:MM" strings exactly as imported; parsing happens in the planner.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieSessionsQuery = `
	SELECT m.id, m.title, m.duration_text, m.duration_minutes, s.id, s.time, s.session_type
	FROM movies m
	LEFT JOIN sessions s ON s.movie_id = m.id
	WHERE m.cinema_id = ? AND m.date = ?`

// ListByCinemaDate returns all movies of a cinema on date ordered by title,
// each with its sessions in time order.  Movies without sessions are
// included with an empty Showtimes slice.
func (r *MovieRepo) ListByCinemaDate(ctx context.Context, cinemaID uint64, date string) ([]model.Movie, error) {
	q := movieSessionsQuery + ` ORDER BY m.title, m.id, s.time, s.id`
	return r.query(ctx, q, cinemaID, date)
}

// ListForPlanning returns the movies listed in ids for a cinema and date,
// in the order of ids.  IDs that are unknown, malformed or belong to
// another cinema or day are silently left out; callers compare lengths to
// detect them.  Duplicate IDs are returned once.
func (r *MovieRepo) ListForPlanning(ctx context.Context, cinemaID uint64, date string, ids []string) ([]model.Movie, error) {
	order := make(map[string]int, len(ids))
	args := []interface{}{cinemaID, date}
	for _, id := range ids {
		n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
		if err != nil {
			continue
		}
		key := strconv.FormatUint(n, 10)
		if _, dup := order[key]; dup {
			continue
		}
		order[key] = len(order)
		args = append(args, n)
	}
	if len(order) == 0 {
		return []model.Movie{}, nil
	}

	q := movieSessionsQuery + ` AND m.id IN (?` + strings.Repeat(",?", len(order)-1) + `) ORDER BY m.id, s.time, s.id`
	found, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}

	out := make([]model.Movie, len(order))
	present := make([]bool, len(order))
	for _, m := range found {
		i := order[m.ID]
		out[i], present[i] = m, true
	}
	kept := out[:0]
	for i, m := range out {
		if present[i] {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

// query runs a movie/session join and folds the rows into movies.  Rows of
// one movie must be adjacent.
func (r *MovieRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Movie{}
	for rows.Next() {
		var (
			movieID     uint64
			title       string
			durText     sql.NullString
			durMinutes  sql.NullInt64
			sessionID   sql.NullInt64
			sessionTime sql.NullString
			sessionType sql.NullString
		)
		if err := rows.Scan(&movieID, &title, &durText, &durMinutes, &sessionID, &sessionTime, &sessionType); err != nil {
			return nil, err
		}
		id := strconv.FormatUint(movieID, 10)
		if len(out) == 0 || out[len(out)-1].ID != id {
			m := model.Movie{ID: id, Title: title, DurationText: durText.String, Showtimes: []model.Showtime{}}
			if durMinutes.Valid {
				n := int(durMinutes.Int64)
				m.DurationMinutes = &n
			}
			out = append(out, m)
		}
		if sessionID.Valid {
			cur := &out[len(out)-1]
			cur.Showtimes = append(cur.Showtimes, model.Showtime{
				ID:   strconv.FormatInt(sessionID.Int64, 10),
				Time: sessionTime.String,
				Tag:  sessionType.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
