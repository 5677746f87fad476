package model

import "time"

// SavedSchedule is an itinerary a user committed to.  It is written to
// the `schedules` and `schedule_items` tables and reuses the itinerary ID
// as its primary key so the cache entry and the durable row correlate.
//
// Fields:
//  ID           – itinerary identifier (ULID).
//  UserID       – owner taken from the JWT subject.
//  CinemaCode   – cinema the plan belongs to.
//  Date         – screening day ("YYYY-MM-DD").
//  Name         – user supplied name or the generated itinerary name.
//  StartTime    – first official start.
//  EndTime      – last official end.
//  TotalMinutes – span between StartTime and EndTime.
//  Items        – attendances in order.
//  CreatedAt    – creation timestamp (UTC).
type SavedSchedule struct {
	ID           string      `json:"id"`
	UserID       uint64      `json:"user_id"`
	CinemaCode   string      `json:"cinema_code"`
	Date         string      `json:"date"`
	Name         string      `json:"name"`
	StartTime    string      `json:"start_time"`
	EndTime      string      `json:"end_time"`
	TotalMinutes int         `json:"total_duration"`
	Items        []SavedItem `json:"items"`
	CreatedAt    time.Time   `json:"created_at"`
}

// SavedItem mirrors one schedule_items row.
type SavedItem struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title,omitempty"`
	SessionID  string `json:"session_id"`
	Order      int    `json:"order"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	GapMinutes int    `json:"gap_minutes"`
}

// NewSavedSchedule copies the persisted subset of an itinerary.
func NewSavedSchedule(it Itinerary, userID uint64, cinemaCode, date, name string, now time.Time) SavedSchedule {
	if name == "" {
		name = it.Name
	}
	items := make([]SavedItem, 0, len(it.Items))
	for _, item := range it.Items {
		items = append(items, SavedItem{
			MovieID:    item.MovieID,
			MovieTitle: item.MovieTitle,
			SessionID:  item.ShowtimeID,
			Order:      item.Order,
			StartTime:  item.StartTime,
			EndTime:    item.EndTime,
			GapMinutes: item.GapToNext,
		})
	}
	return SavedSchedule{
		ID:           it.ID,
		UserID:       userID,
		CinemaCode:   cinemaCode,
		Date:         date,
		Name:         name,
		StartTime:    it.StartTime,
		EndTime:      it.EndTime,
		TotalMinutes: it.TotalMinutes,
		Items:        items,
		CreatedAt:    now.UTC(),
	}
}
