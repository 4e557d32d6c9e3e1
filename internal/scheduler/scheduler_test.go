package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func countingJob(calls *atomic.Int32, notify chan struct{}, err error) Job {
	return func(ctx context.Context) error {
		calls.Add(1)
		if notify != nil {
			select {
			case notify <- struct{}{}:
			default:
			}
		}
		return err
	}
}

func TestTaskRunsImmediatelyThenOnInterval(t *testing.T) {
	var calls atomic.Int32
	notify := make(chan struct{}, 1)
	task := New("poll", countingJob(&calls, notify, nil), nil)

	task.Reset(context.Background(), 10*time.Millisecond)
	defer task.Stop()

	select {
	case <-notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial run")
	}

	deadline := time.Now().Add(time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if calls.Load() < 3 {
		t.Fatalf("expected repeated runs, got %d", calls.Load())
	}
	if !task.Status().IsReady() {
		t.Fatalf("expected ready status after successful runs, got %+v", task.Status())
	}
}

func TestTaskStopHaltsRuns(t *testing.T) {
	var calls atomic.Int32
	notify := make(chan struct{}, 1)
	task := New("poll", countingJob(&calls, notify, nil), nil)

	task.Reset(context.Background(), 5*time.Millisecond)
	<-notify
	task.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("expected no runs after stop; before=%d after=%d", after, calls.Load())
	}
	if task.Interval() != 0 {
		t.Fatalf("expected interval cleared after stop, got %s", task.Interval())
	}
}

func TestTaskResetNonPositiveCancels(t *testing.T) {
	var calls atomic.Int32
	notify := make(chan struct{}, 1)
	task := New("poll", countingJob(&calls, notify, nil), nil)

	task.Reset(context.Background(), 5*time.Millisecond)
	<-notify
	task.Reset(context.Background(), 0)

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("expected schedule cancelled; before=%d after=%d", after, calls.Load())
	}
}

func TestTaskResetReplacesSchedule(t *testing.T) {
	var calls atomic.Int32
	notify := make(chan struct{}, 1)
	task := New("poll", countingJob(&calls, notify, nil), nil)

	task.Reset(context.Background(), time.Hour)
	<-notify
	task.Reset(context.Background(), 2*time.Hour)
	defer task.Stop()

	select {
	case <-notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected immediate run after reschedule")
	}
	if got := task.Interval(); got != 2*time.Hour {
		t.Fatalf("expected new interval, got %s", got)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one run per schedule, got %d", calls.Load())
	}
}

func TestTaskStopsOnContextCancel(t *testing.T) {
	var calls atomic.Int32
	notify := make(chan struct{}, 1)
	task := New("poll", countingJob(&calls, notify, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	task.Reset(ctx, 5*time.Millisecond)
	<-notify
	cancel()
	task.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Fatalf("expected no runs after cancel")
	}
}

func TestTaskRecordsFailures(t *testing.T) {
	var calls atomic.Int32
	notify := make(chan struct{}, 1)
	task := New("poll", countingJob(&calls, notify, errors.New("boom")), nil)

	task.Reset(context.Background(), time.Hour)
	<-notify
	task.Stop()

	status := task.Status()
	if status.ConsecutiveFailures != 1 || status.LastError != "boom" {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.IsReady() {
		t.Fatalf("expected not ready without a success")
	}
}

func TestStopWithoutScheduleIsNoop(t *testing.T) {
	task := New("poll", func(context.Context) error { return nil }, nil)
	task.Stop()
	task.Stop()
	if task.Status().Runs != 0 {
		t.Fatalf("expected no runs")
	}
}
