/*
Package logsampler provides concurrent-safe log sampling for call sites that
can fail repeatedly at high frequency, such as teardown calls running on
defer paths. Instead of flooding the log, a sampler lets a fraction of the
events through and reports the suppressed remainder as summaries.
*/
package logsampler

import (
	"sync"
	"sync/atomic"
	"time"
)

// SummaryReporter receives suppressed-event summaries. Keeping it an
// interface decouples the sampler from any specific logging library.
type SummaryReporter interface {
	LogSummary(key string, suppressedCount int64)
}

// Sampler decides whether a log event should be written.
type Sampler interface {
	// ShouldLog reports whether the event at this site should be written.
	// The key is a stable identifier for the log site; err is optional
	// extra context for the decision.
	ShouldLog(key string, err error) bool
	// Flush reports a summary of suppressed events and resets the counts.
	Flush()
}

// RateSampler lets one event in rate through per window, globally across
// all keys.
type RateSampler struct {
	rate   int64
	window int64
	count  atomic.Int64
	last   atomic.Int64
}

// NewRateSampler creates a rate sampler letting 1 in rate events through,
// resetting its counter every window.
func NewRateSampler(rate int, window time.Duration) *RateSampler {
	s := &RateSampler{
		rate:   int64(rate),
		window: int64(window),
	}
	s.last.Store(time.Now().UnixNano())
	return s
}

// ShouldLog returns true for the first event of each rate-sized batch.
func (s *RateSampler) ShouldLog(key string, err error) bool {
	now := time.Now().UnixNano()
	lastReset := s.last.Load()

	if now-lastReset > s.window {
		if s.last.CompareAndSwap(lastReset, now) {
			s.count.Store(0)
		}
	}
	return (s.count.Add(1)-1)%s.rate == 0
}

// Flush is a no-op; RateSampler keeps no per-key state to summarize.
func (s *RateSampler) Flush() {}

// keyState tracks suppression for one log site.
type keyState struct {
	count   atomic.Int64
	lastLog atomic.Int64
}

// DeduplicatingSampler suppresses repeats per key. Each key logs at most
// once per window; with rate > 1 every rate-th suppressed event also gets
// through. Suppressed counts are reported when Flush is called.
type DeduplicatingSampler struct {
	rate     int64
	window   int64
	keys     sync.Map
	reporter SummaryReporter
}

// NewDeduplicatingSampler creates a per-key sampler. The reporter may be
// nil when summaries are not wanted.
func NewDeduplicatingSampler(rate int, window time.Duration, reporter SummaryReporter) *DeduplicatingSampler {
	return &DeduplicatingSampler{
		rate:     int64(rate),
		window:   int64(window),
		reporter: reporter,
	}
}

// ShouldLog returns true when the key has not logged within the window, or
// when the suppressed count hits the configured rate.
func (s *DeduplicatingSampler) ShouldLog(key string, err error) bool {
	now := time.Now().UnixNano()
	val, _ := s.keys.LoadOrStore(key, &keyState{})
	state := val.(*keyState)

	lastLog := state.lastLog.Load()
	if now-lastLog > s.window {
		if state.lastLog.CompareAndSwap(lastLog, now) {
			state.count.Store(0)
			return true
		}
	}

	count := state.count.Add(1)
	if s.rate > 1 && count%s.rate == 0 {
		lastLog = state.lastLog.Load()
		if state.lastLog.CompareAndSwap(lastLog, now) {
			state.count.Store(0)
			return true
		}
	}
	return false
}

// Flush reports every key with a nonzero suppressed count and forgets it.
func (s *DeduplicatingSampler) Flush() {
	s.keys.Range(func(key, value any) bool {
		state := value.(*keyState)
		if suppressed := state.count.Load(); suppressed > 0 && s.reporter != nil {
			s.reporter.LogSummary(key.(string), suppressed)
		}
		s.keys.Delete(key)
		return true
	})
}
