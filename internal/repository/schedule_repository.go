package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// ErrScheduleNotFound is returned when a saved schedule does not exist or
// belongs to another user.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo persists saved schedules.  Every read and delete is scoped
// to the owning user.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the provided DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Create inserts the schedule header and all of its items in a single
// transaction.  Saving an ID twice returns ErrConflict.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.SavedSchedule) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qHeader = `INSERT INTO schedules
		(id, user_id, cinema_code, date, name, start_time, end_time, total_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err = tx.ExecContext(ctx, qHeader, s.ID, s.UserID, s.CinemaCode, s.Date, s.Name,
		s.StartTime, s.EndTime, s.TotalMinutes, s.CreatedAt); err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if err = createItemsBulkTx(ctx, tx, s.ID, s.Items); err != nil {
		return err
	}
	return tx.Commit()
}

// createItemsBulkTx inserts all items in one statement.  An empty slice is
// a no-op.
func createItemsBulkTx(ctx context.Context, tx *sql.Tx, scheduleID string, items []model.SavedItem) error {
	if len(items) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`INSERT INTO schedule_items
		(schedule_id, movie_id, session_id, item_order, start_time, end_time, gap_minutes) VALUES `)
	args := make([]interface{}, 0, len(items)*7)
	for i, it := range items {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, scheduleID, it.MovieID, it.SessionID, it.Order, it.StartTime, it.EndTime, it.GapMinutes)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}

const scheduleColumns = `id, user_id, cinema_code, date, name, start_time, end_time, total_minutes, created_at`

func scanSchedule(row interface{ Scan(...interface{}) error }) (model.SavedSchedule, error) {
	var s model.SavedSchedule
	err := row.Scan(&s.ID, &s.UserID, &s.CinemaCode, &s.Date, &s.Name,
		&s.StartTime, &s.EndTime, &s.TotalMinutes, &s.CreatedAt)
	s.Items = []model.SavedItem{}
	return s, err
}

// ListByUser returns the user's schedules, newest first, with their items.
func (r *ScheduleRepo) ListByUser(ctx context.Context, userID uint64) ([]model.SavedSchedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SavedSchedule{}
	index := map[string]int{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const qItems = `SELECT si.schedule_id, si.movie_id, COALESCE(m.title, ''), si.session_id,
			si.item_order, si.start_time, si.end_time, si.gap_minutes
		FROM schedule_items si
		JOIN schedules s ON s.id = si.schedule_id
		LEFT JOIN movies m ON m.id = si.movie_id
		WHERE s.user_id = ?
		ORDER BY si.schedule_id, si.item_order`
	items, err := r.db.QueryContext(ctx, qItems, userID)
	if err != nil {
		return nil, err
	}
	defer items.Close()
	for items.Next() {
		var scheduleID string
		var it model.SavedItem
		if err := items.Scan(&scheduleID, &it.MovieID, &it.MovieTitle, &it.SessionID,
			&it.Order, &it.StartTime, &it.EndTime, &it.GapMinutes); err != nil {
			return nil, err
		}
		if i, ok := index[scheduleID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, items.Err()
}

// GetByID returns one schedule of the user with its items, or
// ErrScheduleNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, userID uint64, id string) (*model.SavedSchedule, error) {
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ? AND user_id = ?`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	const qItems = `SELECT si.movie_id, COALESCE(m.title, ''), si.session_id, si.item_order,
			si.start_time, si.end_time, si.gap_minutes
		FROM schedule_items si
		LEFT JOIN movies m ON m.id = si.movie_id
		WHERE si.schedule_id = ?
		ORDER BY si.item_order`
	rows, err := r.db.QueryContext(ctx, qItems, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.SavedItem
		if err := rows.Scan(&it.MovieID, &it.MovieTitle, &it.SessionID, &it.Order,
			&it.StartTime, &it.EndTime, &it.GapMinutes); err != nil {
			return nil, err
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a schedule; its items go with it through the foreign
// key cascade.  It returns ErrScheduleNotFound when the user owns no
// schedule with that ID.
func (r *ScheduleRepo) Delete(ctx context.Context, userID uint64, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
