package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a text logger tagged with a fresh run id
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("run_id", uuid.NewString()))
}

// SlogObserver reports pipeline diagnostics through a slog.Logger
type SlogObserver struct {
	logger *slog.Logger
}

func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) RowsRead(source string, rows int) {
	o.logger.Info("Read records in data file", slog.String("source", source), slog.Int("rows", rows))
}

func (o *SlogObserver) RowSkipped(source string, line int, reason string) {
	o.logger.Warn("Skipping row", slog.String("source", source), slog.Int("line", line), slog.String("reason", reason))
}

func (o *SlogObserver) RowsWritten(destination string, rows int) {
	o.logger.Info("Wrote records to file", slog.String("destination", destination), slog.Int("rows", rows))
}
