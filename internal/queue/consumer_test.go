package queue

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

func sampleEvent() ScheduleSavedEvent {
	return NewScheduleSavedEvent(model.SavedSchedule{
		ID: "01J9ZK3Q8Y5V6W7X8Y9Z0A1B2C", UserID: 7, CinemaCode: "CNA", Date: "2026-10-14",
		Name: "Double feature", StartTime: "18:00", EndTime: "21:55", TotalMinutes: 235,
		CreatedAt: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
		Items: []model.SavedItem{
			{MovieID: "1", MovieTitle: "Dune", StartTime: "18:00"},
			{MovieID: "2", StartTime: "20:15"},
		},
	})
}

func TestNewScheduleSavedEvent(t *testing.T) {
	ev := sampleEvent()
	if ev.SavedAt != "2026-10-14T12:00:00Z" {
		t.Errorf("unexpected saved_at %q", ev.SavedAt)
	}
	if len(ev.Movies) != 2 || ev.Movies[0] != "Dune@18:00" || ev.Movies[1] != "2@20:15" {
		t.Errorf("unexpected movies %v", ev.Movies)
	}
}

func TestHandleMessageAppendsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "schedule.log")
	body, err := json.Marshal(sampleEvent())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := HandleMessage(body, path); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, want := range []string{"schedule_id=01J9ZK3Q8Y5V6W7X8Y9Z0A1B2C", "user_id=7", `cinema="CNA"`, "18:00-21:55 (235 min)", "movies=[Dune@18:00,2@20:15]"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("line %q missing %q", lines[0], want)
		}
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.log")
	if err := HandleMessage([]byte("{not json"), path); err == nil {
		t.Error("expected decode error")
	}
	if err := HandleMessage([]byte(`{"user_id": 1}`), path); err == nil {
		t.Error("expected error for missing schedule_id")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("nothing should be written for rejected messages")
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleep(ctx, time.Hour) {
		t.Error("sleep should stop on cancellation")
	}
	if !sleep(context.Background(), time.Millisecond) {
		t.Error("sleep should report completion")
	}
}
