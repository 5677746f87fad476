package timeutil

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultDurationMinutes is substituted when a duration cannot be resolved.
const DefaultDurationMinutes = 120

// DurationSource tells how a Duration was obtained.
type DurationSource int

const (
	// DurationStructured means the data source supplied a minute count.
	DurationStructured DurationSource = iota
	// DurationParsed means the minutes were extracted from free-form text.
	DurationParsed
	// DurationDefaulted means nothing usable was found and
	// DefaultDurationMinutes was substituted.
	DurationDefaulted
)

func (s DurationSource) String() string {
	switch s {
	case DurationStructured:
		return "structured"
	case DurationParsed:
		return "parsed"
	case DurationDefaulted:
		return "defaulted"
	default:
		return "unknown"
	}
}

// Duration is a resolved movie runtime together with its provenance.
type Duration struct {
	Minutes int
	Source  DurationSource
	Raw     string
}

// Defaulted reports whether the fallback value was used.
func (d Duration) Defaulted() bool { return d.Source == DurationDefaulted }

var (
	hoursMinutesRe = regexp.MustCompile(`(?i)(\d+)\s*h(?:oras?|ours?|rs?)?(?:\s*(?:e|and)\s+|\s*,\s*|\s*)(?:(\d{1,2})\s*(?:m(?:in(?:utes?|utos?|s)?)?)?)?`)
	clockRe        = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)
	minutesRe      = regexp.MustCompile(`(?i)(\d+)\s*(?:min(?:utes?|utos?|s)?|m)\b`)
	bareNumberRe   = regexp.MustCompile(`^\s*(\d+)\.?\s*$`)
	minuteWordRe   = regexp.MustCompile(`(?i)\bmin(?:utes?|utos?|s)?\b`)
)

// FromMinutes wraps a structured minute count. Non-positive values fall back
// to the default.
func FromMinutes(minutes int) Duration {
	if minutes <= 0 {
		return Duration{Minutes: DefaultDurationMinutes, Source: DurationDefaulted, Raw: strconv.Itoa(minutes)}
	}
	return Duration{Minutes: minutes, Source: DurationStructured}
}

// ParseDuration extracts a runtime from text such as "2h 15min", "2h15",
// "1 hora e 40 minutos", "2h", "2:15", "135 min" or "120min (Legendado)". Anything else, including an empty string or a
// zero runtime, yields DefaultDurationMinutes tagged DurationDefaulted.
func ParseDuration(text string) Duration {
	raw := text
	s := strings.TrimSpace(text)
	fallback := Duration{Minutes: DefaultDurationMinutes, Source: DurationDefaulted, Raw: raw}
	if s == "" {
		return fallback
	}

	total := -1
	switch {
	case clockRe.MatchString(s):
		m := clockRe.FindStringSubmatch(s)
		total = atoi(m[1])*60 + atoi(m[2])
	case hoursMinutesRe.MatchString(s):
		m := hoursMinutesRe.FindStringSubmatch(s)
		if m[2] == "" && minuteWordRe.MatchString(s) {
			// Minutes are mentioned but could not be read; do not report
			// the hours alone as a parsed runtime.
			return fallback
		}
		total = atoi(m[1]) * 60
		if m[2] != "" {
			total += atoi(m[2])
		}
	case minutesRe.MatchString(s):
		total = atoi(minutesRe.FindStringSubmatch(s)[1])
	case bareNumberRe.MatchString(s):
		total = atoi(bareNumberRe.FindStringSubmatch(s)[1])
	}
	if total <= 0 {
		return fallback
	}
	return Duration{Minutes: total, Source: DurationParsed, Raw: raw}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
