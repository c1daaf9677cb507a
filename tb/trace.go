package tb

import (
	"context"
	"log/slog"
)

// LevelTrace sits between Info and Warn so that pipeline traces can be kept
// while debug output is dropped.
const LevelTrace slog.Level = slog.LevelInfo + 1

// trace logs a harness lifecycle event. Without a logger from
// HarnessBuilder.WithLogger the events are dropped.
func (h *Harness[S, I]) trace(msg string, args ...any) {
	h.logger.Log(context.Background(), LevelTrace, msg, args...)
}
