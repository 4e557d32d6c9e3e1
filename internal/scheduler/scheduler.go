package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/logging"
)

// Job is one run of a scheduled task.
type Job func(ctx context.Context) error

// Task runs a Job immediately and then on a fixed interval until it is
// rescheduled or stopped. At most one schedule is active at a time.
type Task struct {
	name   string
	job    Job
	logger *slog.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the task loop.
type Status struct {
	Runs                int
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the task has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs an idle Task. Nothing runs until Reset is called with a
// positive interval.
func New(name string, job Job, logger *slog.Logger) *Task {
	return &Task{
		name:   name,
		job:    job,
		logger: logger,
	}
}

// Reset replaces the current schedule. A positive interval starts a new loop
// bound to ctx that runs the job right away; zero or less only cancels.
func (t *Task) Reset(ctx context.Context, interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if interval <= 0 {
		logging.Info(t.logger, "task unscheduled", slog.String("task", t.name))
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.interval = interval

	go t.loop(loopCtx, interval, done)
}

// Stop cancels the schedule and waits for an in-flight run to return.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Interval returns the active period, or zero when nothing is scheduled.
func (t *Task) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// Status returns a snapshot of the task's recent health.
func (t *Task) Status() Status {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	return t.status
}

func (t *Task) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
	t.interval = 0
}

func (t *Task) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info(t.logger, "task scheduled",
		slog.String("task", t.name),
		slog.Int64(logging.FieldDurationMS, interval.Milliseconds()),
	)
	t.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

func (t *Task) runOnce(ctx context.Context) {
	start := time.Now()
	t.recordAttempt(start)
	err := t.job(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Error(t.logger, "task run failed", err,
			slog.String("task", t.name),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
		t.recordFailure(err)
		return
	}
	t.recordSuccess(start)
}

func (t *Task) recordAttempt(at time.Time) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	t.status.Runs++
	t.status.LastAttempt = at
}

func (t *Task) recordSuccess(at time.Time) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	t.status.ConsecutiveFailures = 0
	t.status.LastError = ""
	t.status.LastSuccess = at
}

func (t *Task) recordFailure(err error) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	t.status.ConsecutiveFailures++
	t.status.LastError = err.Error()
}
