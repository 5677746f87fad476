// Package timeutil converts between clock-time strings and minute offsets
// and resolves free-form movie durations into minutes.
//
// All clock values are "HH:MM" offsets from 00:00 of the screening day.
// AddMinutes and FormatMinutes never wrap at midnight: a screening that ends
// at 00:40 the next day is reported as "24:40". Conflict detection relies on
// that monotonic ordering, so callers must not normalise the hour.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTime is returned when a clock string is not "HH:MM".
var ErrMalformedTime = errors.New("malformed time")

// ToMinutes parses "HH:MM" into minutes since 00:00. Hours may be one or
// two digits (or more for past-midnight values such as "25:10"); minutes
// must be two digits in 00..59.
func ToMinutes(clock string) (int, error) {
	s := strings.TrimSpace(clock)
	h, m, ok := strings.Cut(s, ":")
	if !ok || h == "" || len(m) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || strings.ContainsAny(h, "+-") {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 || strings.ContainsAny(m, "+-") {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	return hours*60 + mins, nil
}

// FormatMinutes renders a minute offset as zero-padded "HH:MM". The hour is
// computed by integer division and may exceed 23. Negative offsets are
// clamped to "00:00".
func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// AddMinutes adds delta minutes to an "HH:MM" clock value.
func AddMinutes(clock string, delta int) (string, error) {
	base, err := ToMinutes(clock)
	if err != nil {
		return "", err
	}
	return FormatMinutes(base + delta), nil
}

// MustMinutes is ToMinutes for compile-time constants such as configured
// cutoffs. It panics on malformed input.
func MustMinutes(clock string) int {
	m, err := ToMinutes(clock)
	if err != nil {
		panic(err)
	}
	return m
}
