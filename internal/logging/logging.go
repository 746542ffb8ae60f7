// Package logging bridges the slog loggers used throughout the client to a
// logrus backend that writes to stderr.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sirupsen/logrus"
)

// Nop returns a logger that discards all output.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns a slog logger backed by logrus writing to w. Only warnings and
// errors are shown unless debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	return newLogger(w, logrus.WarnLevel, debug)
}

// NewService is New for long-running processes, which also log at info level.
func NewService(w io.Writer, debug bool) *slog.Logger {
	return newLogger(w, logrus.InfoLevel, debug)
}

func newLogger(w io.Writer, level logrus.Level, debug bool) *slog.Logger {
	backend := logrus.New()
	backend.SetOutput(w)
	backend.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	backend.SetLevel(level)
	if debug {
		backend.SetLevel(logrus.DebugLevel)
	}
	return slog.New(NewLogrusHandler(backend))
}

type logrusHandler struct {
	logger *logrus.Logger
	attrs  []slog.Attr
	groups []string
}

// NewLogrusHandler creates a slog.Handler that forwards records to logrus.
func NewLogrusHandler(logger *logrus.Logger) slog.Handler {
	return &logrusHandler{logger: logger}
}

func (h *logrusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.IsLevelEnabled(toLogrusLevel(level))
}

func (h *logrusHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(logrus.Fields, record.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields[h.key(attr.Key)] = attr.Value.Any()
		return true
	})
	h.logger.WithFields(fields).Log(toLogrusLevel(record.Level), record.Message)
	return nil
}

func (h *logrusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, attr := range attrs {
		merged = append(merged, slog.Attr{Key: h.key(attr.Key), Value: attr.Value})
	}
	return &logrusHandler{logger: h.logger, attrs: merged, groups: h.groups}
}

func (h *logrusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &logrusHandler{logger: h.logger, attrs: h.attrs, groups: groups}
}

func (h *logrusHandler) key(k string) string {
	if len(h.groups) == 0 {
		return k
	}
	return strings.Join(h.groups, ".") + "." + k
}

func toLogrusLevel(level slog.Level) logrus.Level {
	switch {
	case level >= slog.LevelError:
		return logrus.ErrorLevel
	case level >= slog.LevelWarn:
		return logrus.WarnLevel
	case level >= slog.LevelInfo:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}
