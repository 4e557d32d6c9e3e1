package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	calls           int
	errors          int
	notFound        int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about stat lookups and
// decision passes, mirrored to OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*sourceStats
	passes int
	kicks  int
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*sourceStats),
		otel:  otel,
	}
}

// RecordSourceAttempt counts a stat source call and stores the last observed latency.
// outcome is one of OutcomeFound, OutcomeNotFound or OutcomeError.
func (r *Recorder) RecordSourceAttempt(source, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureStatsLocked(source)
	stats.calls++
	stats.lastCallLatency = duration
	switch outcome {
	case OutcomeError:
		stats.errors++
	case OutcomeNotFound:
		stats.notFound++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordSourceAttempt(source, outcome, duration)
	}
}

// RecordRateLimit tracks that a source answered 429 and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(source string, retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureStatsLocked(source)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRateLimit(source, retryAfter)
	}
}

// RecordPass tracks one decision pass over a player snapshot.
func (r *Recorder) RecordPass(duration time.Duration, players, kicks int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.passes++
	r.kicks += kicks
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPass(duration, players, kicks)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot returns a copy of the current stats for a source.
type Snapshot struct {
	Calls           int
	Errors          int
	NotFound        int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[source]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		NotFound:        stats.notFound,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// SourceCalls returns the total attempts recorded for a source.
func (r *Recorder) SourceCalls(source string) int {
	return r.Snapshot(source).Calls
}

// SourceErrors returns the failed attempts recorded for a source.
func (r *Recorder) SourceErrors(source string) int {
	return r.Snapshot(source).Errors
}

// Passes returns the number of decision passes recorded.
func (r *Recorder) Passes() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}

// Kicks returns the number of kicks issued across all passes.
func (r *Recorder) Kicks() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kicks
}

func (r *Recorder) ensureStatsLocked(source string) *sourceStats {
	stats, ok := r.stats[source]
	if !ok {
		stats = &sourceStats{}
		r.stats[source] = stats
	}
	return stats
}
