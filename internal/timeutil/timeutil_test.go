package timeutil

import (
	"errors"
	"testing"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"18:00", 1080, false},
		{"9:05", 545, false},
		{"23:59", 1439, false},
		{"25:10", 1510, false},
		{" 20:15 ", 1215, false},
		{"2015", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
		{"12:5", 0, true},
		{"12:60", 0, true},
		{"-1:30", 0, true},
		{"12:+5", 0, true},
		{":30", 0, true},
	}
	for _, tt := range tests {
		got, err := ToMinutes(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedTime) {
				t.Errorf("ToMinutes(%q): expected ErrMalformedTime, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ToMinutes(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		in    string
		delta int
		want  string
	}{
		{"18:00", 115, "19:55"},
		{"20:15", 5, "20:20"},
		{"09:58", 2, "10:00"},
		{"23:30", 70, "24:40"},
		{"00:10", -5, "00:05"},
	}
	for _, tt := range tests {
		got, err := AddMinutes(tt.in, tt.delta)
		if err != nil {
			t.Fatalf("AddMinutes(%q, %d): %v", tt.in, tt.delta, err)
		}
		if got != tt.want {
			t.Errorf("AddMinutes(%q, %d) = %q, want %q", tt.in, tt.delta, got, tt.want)
		}
	}

	if _, err := AddMinutes("noon", 10); !errors.Is(err, ErrMalformedTime) {
		t.Errorf("expected ErrMalformedTime, got %v", err)
	}
}

func TestFormatMinutesClampsNegative(t *testing.T) {
	if got := FormatMinutes(-30); got != "00:00" {
		t.Errorf("expected 00:00, got %q", got)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		source DurationSource
	}{
		{"2h 15min", 135, DurationParsed},
		{"2h15", 135, DurationParsed},
		{"2h", 120, DurationParsed},
		{"1h 5m", 65, DurationParsed},
		{"1 hour 30 minutes", 90, DurationParsed},
		{"Duração: 2h 10min", 130, DurationParsed},
		{"2:15", 135, DurationParsed},
		{"135 min", 135, DurationParsed},
		{"98", 98, DurationParsed},
		{"1 hora e 40 minutos", 100, DurationParsed},
		{"1 hour and 30 minutes", 90, DurationParsed},
		{"2 horas, 5 min", 125, DurationParsed},
		{"120min (Legendado)", 120, DurationParsed},
		{"Duração: 135 minutos", 135, DurationParsed},
		{"2h and some minutes", DefaultDurationMinutes, DurationDefaulted},
		{"N/A", DefaultDurationMinutes, DurationDefaulted},
		{"", DefaultDurationMinutes, DurationDefaulted},
		{"0h", DefaultDurationMinutes, DurationDefaulted},
		{"soon", DefaultDurationMinutes, DurationDefaulted},
	}
	for _, tt := range tests {
		got := ParseDuration(tt.in)
		if got.Minutes != tt.want || got.Source != tt.source {
			t.Errorf("ParseDuration(%q) = %d/%s, want %d/%s", tt.in, got.Minutes, got.Source, tt.want, tt.source)
		}
		if got.Raw != tt.in {
			t.Errorf("ParseDuration(%q) raw = %q", tt.in, got.Raw)
		}
	}
}

func TestFromMinutes(t *testing.T) {
	d := FromMinutes(100)
	if d.Minutes != 100 || d.Source != DurationStructured {
		t.Errorf("unexpected %+v", d)
	}
	d = FromMinutes(0)
	if !d.Defaulted() || d.Minutes != DefaultDurationMinutes {
		t.Errorf("expected default for zero minutes, got %+v", d)
	}
}
