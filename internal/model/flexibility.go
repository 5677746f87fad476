package model

// Default slack values in minutes.
const (
	DefaultAllowLateEntry = 5
	DefaultAllowEarlyExit = 5
	DefaultBreakTime      = 5
)

// Flexibility describes how strictly official screening times are honoured.
// AllowLateEntry is the grace period after an official start during which
// arrival is still acceptable, AllowEarlyExit is how many minutes before the
// official end the viewer may leave, and BreakTime is the minimum gap that
// must separate two attendances.  Values are not clamped here; the HTTP
// layer bounds them before building a request.
type Flexibility struct {
	AllowLateEntry int `json:"allow_late_entry"`
	AllowEarlyExit int `json:"allow_early_exit"`
	BreakTime      int `json:"break_time"`
}

// DefaultFlexibility returns the 5/5/5 configuration.
func DefaultFlexibility() Flexibility {
	return Flexibility{
		AllowLateEntry: DefaultAllowLateEntry,
		AllowEarlyExit: DefaultAllowEarlyExit,
		BreakTime:      DefaultBreakTime,
	}
}

// Preferences tune the desirability score of scored itineraries.
// PreferredStartTime is "HH:MM" or empty.
type Preferences struct {
	PreferredStartTime string `json:"preferred_start_time,omitempty"`
	AvoidLateNight     bool   `json:"avoid_late_night"`
	PreferMatinee      bool   `json:"prefer_matinee"`
}
