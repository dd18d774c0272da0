package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/GrinlexGH/deps/internal/ui/output"
	"github.com/GrinlexGH/deps/internal/ui/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	// jobKey is rendered as a [name] prefix instead of a trailing attribute.
	jobKey = "job"
	// runIDKey only matters to machine-read logs and is left out of the console.
	runIDKey = "run_id"
)

// levelMark is the symbol and color a console line starts with.
type levelMark struct {
	min    slog.Level
	symbol string
	color  lipgloss.Color
}

// levelMarks is ordered from the most severe level down.
var levelMarks = []levelMark{
	{min: slog.LevelError, symbol: style.Cross, color: style.Red},
	{min: slog.LevelWarn, symbol: style.Warning, color: style.Yellow},
	{min: slog.LevelInfo, color: style.Slate},
	{min: slog.LevelDebug - 4, symbol: style.Dot, color: style.Slate},
}

func markFor(level slog.Level) levelMark {
	for _, m := range levelMarks {
		if level >= m.min {
			return m
		}
	}
	return levelMarks[len(levelMarks)-1]
}

// ConsoleHandler writes one colored line per record for a person watching an
// install. A "job" attribute becomes a [job] prefix so interleaved lines of
// parallel jobs stay readable.
type ConsoleHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	job    string
	prefix string
	attrs  []string
}

// NewConsoleHandler returns a handler writing to w. A *slog.LevelVar passed in
// opts stays live, so verbosity can change later.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{out: output.New(w), level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	job := h.job
	attrs := h.attrs
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix == "" && a.Key == jobKey {
			job = a.Value.String()
			return true
		}
		attrs = appendAttr(attrs, h.prefix, a)
		return true
	})

	mark := markFor(r.Level)
	var b strings.Builder
	if mark.symbol != "" {
		b.WriteString(mark.symbol + " ")
	}
	if job != "" {
		b.WriteString("[" + job + "] ")
	}
	b.WriteString(r.Message)
	for _, a := range attrs {
		b.WriteString(" " + a)
	}

	line := h.out.String(b.String()).Foreground(termenv.RGBColor(string(mark.color)))
	_, err := h.out.WriteString(line.String() + "\n")
	return err
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]string(nil), h.attrs...)
	for _, a := range attrs {
		if h.prefix == "" && a.Key == jobKey {
			next.job = a.Value.String()
			continue
		}
		next.attrs = appendAttr(next.attrs, h.prefix, a)
	}
	return &next
}

// WithGroup implements slog.Handler. Groups nest as dotted key prefixes.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func appendAttr(dst []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	switch {
	case a.Equal(slog.Attr{}):
		return dst
	case prefix == "" && a.Key == runIDKey:
		return dst
	case a.Value.Kind() == slog.KindGroup:
		inner := prefix
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			dst = appendAttr(dst, inner, ga)
		}
		return dst
	}
	return append(dst, prefix+a.Key+"="+a.Value.String())
}
