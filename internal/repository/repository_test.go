package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/oklog/ulid/v2"

	"github.com/iliyamo/cinema-marathon-planner/internal/database"
	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// openTestDB connects to MYSQL_TEST_DSN and applies the schema.  Tests are
// skipped when the variable is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedCinema inserts a cinema with one movie per entry of sessions and
// returns the cinema and the movie IDs.
func seedCinema(t *testing.T, db *sql.DB, date string, sessions ...[]string) (*model.Cinema, []string) {
	t.Helper()
	ctx := context.Background()
	code := "T" + ulid.Make().String()[:10]
	res, err := db.ExecContext(ctx, `INSERT INTO cinemas (code, name, state) VALUES (?, ?, 'SP')`, code, "Test "+code)
	if err != nil {
		t.Fatalf("insert cinema: %v", err)
	}
	cid, _ := res.LastInsertId()

	var ids []string
	for i, times := range sessions {
		res, err := db.ExecContext(ctx, `INSERT INTO movies (cinema_id, date, title, duration_text, duration_minutes) VALUES (?, ?, ?, ?, ?)`,
			cid, date, "Movie "+strconv.Itoa(i), "2h", 120)
		if err != nil {
			t.Fatalf("insert movie: %v", err)
		}
		mid, _ := res.LastInsertId()
		ids = append(ids, strconv.FormatInt(mid, 10))
		for _, tm := range times {
			if _, err := db.ExecContext(ctx, `INSERT INTO sessions (movie_id, time, session_type) VALUES (?, ?, 'DUB')`, mid, tm); err != nil {
				t.Fatalf("insert session: %v", err)
			}
		}
	}
	return &model.Cinema{ID: uint64(cid), Code: code}, ids
}

func TestMovieRepoListForPlanning(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cinema, ids := seedCinema(t, db, "2026-10-14", []string{"20:00", "14:00"}, []string{}, []string{"18:30"})

	got, err := NewCinemaRepo(db).GetByCode(ctx, cinema.Code)
	if err != nil || got.ID != cinema.ID {
		t.Fatalf("GetByCode: %v %+v", err, got)
	}
	if _, err := NewCinemaRepo(db).GetByCode(ctx, "missing-code"); !errors.Is(err, ErrCinemaNotFound) {
		t.Errorf("expected ErrCinemaNotFound, got %v", err)
	}

	repo := NewMovieRepo(db)
	movies, err := repo.ListForPlanning(ctx, cinema.ID, "2026-10-14", []string{ids[2], "999999999", ids[0], ids[1], ids[0], "abc"})
	if err != nil {
		t.Fatalf("ListForPlanning: %v", err)
	}
	if len(movies) != 3 || movies[0].ID != ids[2] || movies[1].ID != ids[0] || movies[2].ID != ids[1] {
		t.Fatalf("unexpected movies %+v", movies)
	}
	if len(movies[1].Showtimes) != 2 || movies[1].Showtimes[0].Time != "14:00" {
		t.Errorf("sessions not ordered by time: %+v", movies[1].Showtimes)
	}
	if len(movies[2].Showtimes) != 0 {
		t.Errorf("expected a movie without sessions, got %+v", movies[2].Showtimes)
	}
	if movies[0].DurationMinutes == nil || *movies[0].DurationMinutes != 120 {
		t.Errorf("structured duration not loaded")
	}

	all, err := repo.ListByCinemaDate(ctx, cinema.ID, "2026-10-14")
	if err != nil || len(all) != 3 {
		t.Errorf("ListByCinemaDate: %v (%d)", err, len(all))
	}
	other, err := repo.ListByCinemaDate(ctx, cinema.ID, "2026-10-15")
	if err != nil || len(other) != 0 {
		t.Errorf("expected no movies on another day, got %d (%v)", len(other), err)
	}
}

func TestScheduleRepoLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, ids := seedCinema(t, db, "2026-10-14", []string{"14:00"}, []string{"16:30"})
	repo := NewScheduleRepo(db)

	userID := uint64(time.Now().UnixNano() % 1_000_000_000)
	s := &model.SavedSchedule{
		ID: ulid.Make().String(), UserID: userID, CinemaCode: "X", Date: "2026-10-14",
		Name: "Double feature", StartTime: "14:00", EndTime: "18:30", TotalMinutes: 270,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Items: []model.SavedItem{
			{MovieID: ids[0], SessionID: "1", Order: 0, StartTime: "14:00", EndTime: "16:00", GapMinutes: 5},
			{MovieID: ids[1], SessionID: "2", Order: 1, StartTime: "16:30", EndTime: "18:30"},
		},
	}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, s); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict on duplicate save, got %v", err)
	}

	got, err := repo.GetByID(ctx, userID, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].MovieTitle != "Movie 0" || got.Items[0].GapMinutes != 5 {
		t.Errorf("unexpected items %+v", got.Items)
	}
	if _, err := repo.GetByID(ctx, userID+1, s.ID); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("other users must not see the schedule, got %v", err)
	}

	list, err := repo.ListByUser(ctx, userID)
	if err != nil || len(list) != 1 || len(list[0].Items) != 2 {
		t.Fatalf("ListByUser: %v %+v", err, list)
	}

	if err := repo.Delete(ctx, userID+1, s.ID); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("expected ErrScheduleNotFound for foreign delete, got %v", err)
	}
	if err := repo.Delete(ctx, userID, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, userID, s.ID); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("expected ErrScheduleNotFound on second delete, got %v", err)
	}
}
