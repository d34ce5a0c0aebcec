//go:build windows
// +build windows

package mapi

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/olkit/golang-mapi/logsampler"
)

const (
	// Custom levels
	LogLevelTrace = slog.Level(-8)
)

// SetLoggerHandler sets a custom logger for the MAPI library
func SetLoggerHandler(h slog.Handler) {
	if h == nil {
		return // Keep default
	}
	slog.SetDefault(slog.New(h))
}

func SetLoggerLevel(level slog.Level) {
	slog.SetLogLoggerLevel(level)
}

func SetDebugLevel(addSource bool) {
	// Create text handler that writes to stderr
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: addSource,
	})

	// Set as default logger
	slog.SetDefault(slog.New(h))
}

// Logs trace messages, level = -8
func LogTrace(msg string, args ...any) {
	slog.Default().Log(context.Background(), LogLevelTrace, msg, args...)
}

// Teardown failures (free/uninitialize errors on defer paths) can repeat at
// high frequency when a provider misbehaves, so they go through a
// deduplicating sampler instead of straight to the log.
var teardownSampler = logsampler.NewDeduplicatingSampler(100, 30*time.Second, slogSummary{})

type slogSummary struct{}

func (slogSummary) LogSummary(key string, suppressed int64) {
	slog.Warn("suppressed repeated teardown failures",
		"call", key, "count", suppressed)
}

func logTeardownFailure(call string, err error) {
	if teardownSampler.ShouldLog(call, err) {
		slog.Warn("teardown call failed", "call", call, "error", err)
	}
}
