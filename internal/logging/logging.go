// Package logging wraps log/slog with the conventions used throughout
// rsyncwatch: a logger is carried on the context, every destination worker
// attaches its shortname as a "dest" attribute, and errors are logged with
// a uniform WithError helper so log lines stay greppable.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/fatih/color"
)

type ctxKey struct{}

var base = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetDefault installs l as the logger returned by GetLogger for contexts
// that don't carry one of their own. Called once at startup by the daemon
// command, after the logging outlet has been decided.
func SetDefault(l *slog.Logger) { base = l }

// With returns a context carrying a logger derived from the context's
// current logger (or the package default) with extra attributes attached.
func With(ctx context.Context, attrs ...slog.Attr) context.Context {
	l := GetLogger(ctx)
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return context.WithValue(ctx, ctxKey{}, l.With(args...))
}

// WithDest is shorthand for With(ctx, slog.String("dest", shortname)).
func WithDest(ctx context.Context, shortname string) context.Context {
	return With(ctx, slog.String("dest", shortname))
}

// GetLogger returns the logger attached to ctx, or the package default.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return base
}

// WithError logs msg at error level with "err" set to err.Error(), unless
// err is nil in which case it's a no-op. Centralizing this means every
// error-log call site looks the same, which makes grepping logs for a given
// failure mode easier across the codebase.
func WithError(l *slog.Logger, err error, msg string, args ...any) {
	if err == nil {
		return
	}
	args = append(args, slog.String("err", err.Error()))
	l.Error(msg, args...)
}

// NewHumanHandler builds a slog.Handler that writes one colorized line per
// record, matching the "format: human" stdout outlet the config supports.
// When color is false, or stderr is not a terminal, output is plain text.
func NewHumanHandler(w *os.File, level slog.Leveler, useColor bool) slog.Handler {
	if !useColor || !isTerminal(w) {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return &humanHandler{w: w, level: level, attrs: nil}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// humanHandler is a minimal slog.Handler that colorizes the level and the
// "dest" attribute, which are the two things operators scan log output for.
type humanHandler struct {
	w     *os.File
	level slog.Leveler
	attrs []slog.Attr
}

func (h *humanHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *humanHandler) Handle(_ context.Context, r slog.Record) error {
	levelColor := levelColor(r.Level)
	_, err := levelColor.Fprintf(h.w, "%s %-5s %s", r.Time.Format("15:04:05.000"),
		r.Level.String(), r.Message)
	if err != nil {
		return err
	}
	for _, a := range h.attrs {
		fprintAttr(h.w, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		fprintAttr(h.w, a)
		return true
	})
	_, err = h.w.WriteString("\n")
	return err
}

func fprintAttr(w *os.File, a slog.Attr) {
	if a.Key == "dest" {
		color.New(color.FgCyan).Fprintf(w, " %s=%s", a.Key, a.Value)
		return
	}
	w.WriteString(" ")
	w.WriteString(a.Key)
	w.WriteString("=")
	w.WriteString(a.Value.String())
}

func (h *humanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := &humanHandler{w: h.w, level: h.level}
	n.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return n
}

func (h *humanHandler) WithGroup(_ string) slog.Handler { return h }

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed, color.Bold)
	case l >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}
