// Package queue defines the messages exchanged over RabbitMQ and the
// background consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// ScheduleSavedEvent is published when a user saves a generated itinerary.
// It carries enough detail for downstream consumers to log or notify
// without querying the primary database.
type ScheduleSavedEvent struct {
	ScheduleID   string   `json:"schedule_id"`
	UserID       uint64   `json:"user_id"`
	CinemaCode   string   `json:"cinema_code"`
	Date         string   `json:"date"`
	Name         string   `json:"name"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	TotalMinutes int      `json:"total_minutes"`
	Movies       []string `json:"movies"`
	SavedAt      string   `json:"saved_at"`
}

// NewScheduleSavedEvent builds the event for a persisted schedule.
func NewScheduleSavedEvent(s model.SavedSchedule) ScheduleSavedEvent {
	movies := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		label := it.MovieTitle
		if label == "" {
			label = it.MovieID
		}
		movies = append(movies, label+"@"+it.StartTime)
	}
	return ScheduleSavedEvent{
		ScheduleID:   s.ID,
		UserID:       s.UserID,
		CinemaCode:   s.CinemaCode,
		Date:         s.Date,
		Name:         s.Name,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		TotalMinutes: s.TotalMinutes,
		Movies:       movies,
		SavedAt:      s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
