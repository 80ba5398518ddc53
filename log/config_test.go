package log_test

import (
	"slices"
	"testing"

	"github.com/avon-lang/avon/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want log.Level
	}{
		{"trace", log.LevelTrace},
		{"TRACE", log.LevelTrace},
		{" trace ", log.LevelTrace},
		{"debug", log.LevelDebug},
		{"Info", log.LevelInfo},
		{"WARN", log.LevelWarn},
		{"error", log.LevelError},
		{"WARN+4", log.LevelError},
		{"", log.DefaultLevel},
		{"verbose", log.DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := log.ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want log.Format
	}{
		{"text", log.FormatText},
		{"TEXT", log.FormatText},
		{"json", log.FormatJSON},
		{" json ", log.FormatJSON},
		{"", log.DefaultFormat},
		{"xml", log.DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := log.ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	pairs := map[log.Level]string{
		log.LevelTrace: "trace",
		log.LevelDebug: "debug",
		log.LevelInfo:  "info",
		log.LevelWarn:  "warn",
		log.LevelError: "error",
	}

	for level, want := range pairs {
		if got := level.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(level), got, want)
		}
	}
}

func TestLevels_LowestFirst(t *testing.T) {
	t.Parallel()

	got := slices.Collect(log.Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestFormats(t *testing.T) {
	t.Parallel()

	got := slices.Collect(log.Formats())
	want := []string{"text", "json"}

	if !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}
