package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI escape sequences used by the pretty handler.
const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler renders records for humans: gray keys, type-colored
// values, and either key=value lines (text) or an indented multi-line
// object (json). Attributes from WithAttrs are prepended to each record.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	format Format
	stamp  func(time.Time) string
	attrs  []slog.Attr
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	stamp func(time.Time) string,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		format: format,
		stamp:  stamp,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &clone
}

func (h *prettyHandler) WithGroup(string) slog.Handler {
	// Groups flatten; the pretty output is for eyes, not parsers.
	return h
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	var n int

	emit := func(a slog.Attr) {
		h.writeAttr(buf, a, n)
		n++
	}

	if h.format == FormatJSON {
		buf.WriteString("{\n")
	}

	if !r.Time.IsZero() {
		if s := h.stamp(r.Time); s != "" {
			emit(slog.String(slog.TimeKey, s))
		}
	}

	emit(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			emit(slog.String(
				slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line),
			))
		}
	}

	emit(slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		emit(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		emit(a)

		return true
	})

	if h.format == FormatJSON {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, n int) {
	switch h.format {
	case FormatJSON:
		if n > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(ansiGray)
		buf.WriteString(a.Key)
		buf.WriteString(ansiReset)
		buf.WriteString(": ")

	default:
		if n > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(ansiGray)
		buf.WriteString(a.Key)
		buf.WriteString(ansiReset)
		buf.WriteByte('=')
	}

	h.writeValue(buf, a.Value)
}

func (h *prettyHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		colored(buf, ansiCyan, v.String())

	case slog.KindInt64:
		colored(buf, ansiYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		colored(buf, ansiYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		colored(buf, ansiYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			colored(buf, ansiGreen, "true")
		} else {
			colored(buf, ansiRed, "false")
		}

	case slog.KindDuration:
		colored(buf, ansiMagenta, v.Duration().String())

	case slog.KindTime:
		colored(buf, ansiBlue, v.Time().String())

	case slog.KindGroup:
		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			colored(buf, ansiGray, a.Key+"=")
			h.writeValue(buf, a.Value)
		}

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			name := strings.ToUpper(Level(level).String())
			colored(buf, levelColor(level), name)

			return
		}

		colored(buf, ansiCyan, fmt.Sprint(v.Any()))

	default:
		colored(buf, ansiCyan, v.String())
	}
}

func colored(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(ansiReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiGreen
	case level >= slog.LevelDebug:
		return ansiBlue
	default:
		return ansiGray
	}
}
