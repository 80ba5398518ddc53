package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/avon-lang/avon/log"
)

// plain returns options that make output deterministic and grep-friendly.
func plain(opts ...log.Option) []log.Option {
	return append([]log.Option{
		log.WithPretty(false),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
	}, opts...)
}

func TestMake_Defaults(t *testing.T) {
	t.Parallel()

	logger := log.Make(new(bytes.Buffer))

	if got := logger.Level(); got != log.DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, log.DefaultLevel)
	}

	if got := logger.Format(); got != log.DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, log.DefaultFormat)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	t.Parallel()

	var logger log.Logger

	// Must not panic, must report defaults.
	logger.Info("dropped")
	logger.Error("dropped")

	if got := logger.Level(); got != log.DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, log.DefaultLevel)
	}

	if got := logger.Format(); got != log.DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, log.DefaultFormat)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := log.Make(buf, plain(log.WithLevel(log.LevelWarn))...)

	logger.Trace("hidden")
	logger.Debug("hidden")
	logger.Info("hidden")

	if buf.Len() != 0 {
		t.Fatalf("messages below warn must be discarded, got %q", buf)
	}

	logger.Warn("conflict", slog.String("file", "a.txt"))
	logger.Error("deploy failed")

	out := buf.String()

	if !strings.Contains(out, "conflict") || !strings.Contains(out, "deploy failed") {
		t.Errorf("missing expected messages in %q", out)
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := log.Make(buf, plain(log.WithLevel(log.LevelTrace))...)

	logger.Trace("token", slog.String("kind", "lbrace"))

	out := buf.String()

	if !strings.Contains(out, "TRACE") {
		t.Errorf("trace level must render as TRACE, got %q", out)
	}

	if strings.Contains(out, "DEBUG-4") {
		t.Errorf("slog's synthetic name leaked into %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := log.Make(buf, plain()...).
		With(slog.String("command", "eval"))

	logger.Info("done")

	if out := buf.String(); !strings.Contains(out, "command=eval") {
		t.Errorf("attached attr missing from %q", out)
	}
}

func TestLogger_WrapLeavesReceiverUnchanged(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)

	base := log.Make(buf, plain()...)
	quiet := base.Wrap(log.WithLevel(log.LevelError))

	if got := base.Level(); got != log.DefaultLevel {
		t.Errorf("base level changed to %v", got)
	}

	if got := quiet.Level(); got != log.LevelError {
		t.Errorf("wrapped level = %v, want error", got)
	}

	quiet.Info("hidden")

	if buf.Len() != 0 {
		t.Errorf("wrapped logger emitted below its level: %q", buf)
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := log.Make(buf,
		log.WithPretty(false),
		log.WithFormat(log.FormatJSON),
	)

	logger.Info("wrote file", slog.Int("bytes", 42))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf)
	}

	if record["msg"] != "wrote file" {
		t.Errorf("msg = %v", record["msg"])
	}

	if record["bytes"] != float64(42) {
		t.Errorf("bytes = %v", record["bytes"])
	}
}

func TestLogger_NilWriterDiscards(t *testing.T) {
	t.Parallel()

	logger := log.Make(nil, plain()...)

	// Must not panic.
	logger.Error("into the void")
}

func TestPrettyHandler_Text(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := log.Make(buf,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
	)

	logger.Info("deploy complete", slog.Int("files", 2), slog.Bool("backup", true))

	out := buf.String()

	if !strings.Contains(out, "\033[") {
		t.Fatalf("pretty text output must be colorized, got %q", out)
	}

	for _, want := range []string{"deploy complete", "files", "2", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestPrettyHandler_JSON(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := log.Make(buf,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
	)

	logger.Warn("file exists", slog.String("file", "a.txt"))

	out := buf.String()

	if !strings.HasPrefix(out, "{\n") || !strings.Contains(out, "\n}") {
		t.Errorf("pretty JSON must span multiple lines, got %q", out)
	}

	if !strings.Contains(out, "a.txt") {
		t.Errorf("missing attr value in %q", out)
	}
}

func TestPrettyHandler_WithAttrsPrepended(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	logger := log.Make(buf,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
	).With(slog.String("command", "repl"))

	logger.Info("session start")

	out := buf.String()

	if !strings.Contains(out, "command") || !strings.Contains(out, "repl") {
		t.Errorf("WithAttrs attr missing from %q", out)
	}
}
