// Package logging provides structured logging using zerolog, adapted
// from the analyzer's original request-logger for a one-shot CLI run
// instead of a long-lived HTTP server.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const runIDKey contextKey = "run_id"

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Init configures the global logger. verbose raises the level to debug;
// otherwise LOG_LEVEL (default "info") governs it.
func Init(verbose bool) {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	const callerWidth = 30
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		path := fmt.Sprintf("%s:%d", filepath.Base(file), line)
		if len(path) >= callerWidth {
			return path[len(path)-callerWidth:]
		}
		return path + strings.Repeat(" ", callerWidth-len(path))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: milliTimeFormat,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}

	log.Logger = log.Output(output).With().Caller().Logger()
}

// Get returns the global logger.
func Get() zerolog.Logger {
	return log.Logger
}

// NewRunID returns a fresh correlation id for one Analyze invocation.
func NewRunID() uuid.UUID {
	return uuid.New()
}

// WithRunID returns a new context carrying runID.
func WithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run id from ctx, or the zero UUID.
func RunIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(runIDKey).(uuid.UUID)
	return id
}

// ForRun returns a logger enriched with the run id from ctx, for
// attaching to every log line a search worker or the coordinator emits.
func ForRun(ctx context.Context) zerolog.Logger {
	id := RunIDFromContext(ctx)
	if id == uuid.Nil {
		return log.Logger
	}
	return log.Logger.With().Str("runId", id.String()).Logger()
}
