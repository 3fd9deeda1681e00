// Package cli implements the areamap command-line interface.
//
// The commands render territory maps from a logic file and a land mask,
// inspect the landmasses of a mask, answer hit tests, play a game through
// its turns and serve games over HTTP. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Generate png, overlay or json output for one frame
//   - inspect: List the landmasses of a land mask
//   - probe: Report the area owning a pixel
//   - play: Run a game through its turns
//   - serve: Start the HTTP game server
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs render, cache and HTTP events. Loggers are passed through
// context.Context so helpers below a command log where the command does.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at the given level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command. Each step logs the stage that just finished at
// debug level with its own duration; done logs the total at info level.
// It is meant for one goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

// newProgress starts timing now.
func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// step logs the end of stage, e.g. "stage=terrain took=12ms landmasses=3".
func (p *progress) step(stage string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"stage", stage, "took", now.Sub(p.last).Round(time.Millisecond)}, keyvals...)
	p.logger.Debug("finished", kv...)
	p.last = now
}

// done logs the formatted message with the total elapsed time.
// Example output: "Rendered 4 regions over 3 landmasses (1.234s)"
func (p *progress) done(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey keys this package's context values.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns ctx carrying l. A nil ctx is treated as Background.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() for contexts that never passed through the root command
// (tests and direct helper calls).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
