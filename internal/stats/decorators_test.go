package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/metrics"
)

type fakeSource struct {
	name  string
	rank  int
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchRank(ctx context.Context, player string) (int, error) {
	f.calls++
	return f.rank, f.err
}

func TestInstrumentedSourceRecordsOutcomes(t *testing.T) {
	rec := metrics.NewRecorder()

	found := NewInstrumentedSource(&fakeSource{name: "a", rank: 12}, rec, nil)
	if rank, err := found.FetchRank(context.Background(), "p"); err != nil || rank != 12 {
		t.Fatalf("expected rank 12, got %d err=%v", rank, err)
	}

	missing := NewInstrumentedSource(&fakeSource{name: "a", err: fmt.Errorf("x: %w", ErrNotFound)}, rec, nil)
	_, _ = missing.FetchRank(context.Background(), "p")

	limited := NewInstrumentedSource(&fakeSource{name: "a", err: &StatusError{Source: "a", StatusCode: 429, RetryAfter: time.Second}}, rec, nil)
	_, _ = limited.FetchRank(context.Background(), "p")

	snap := rec.Snapshot("a")
	if snap.Calls != 3 || snap.NotFound != 1 || snap.Errors != 1 || snap.RateLimitHits != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if found.Name() != "a" {
		t.Fatalf("expected wrapped name, got %s", found.Name())
	}
}

func TestRateLimitedSourcePassThroughWhenDisabled(t *testing.T) {
	inner := &fakeSource{name: "a"}
	if got := NewRateLimitedSource(inner, 0, nil); got != Source(inner) {
		t.Fatal("expected unwrapped source when rate is zero")
	}
}

func TestRateLimitedSourceFailsWhenDeadlineTooShort(t *testing.T) {
	inner := &fakeSource{name: "a", rank: 5}
	src := NewRateLimitedSource(inner, 0.5, nil)

	if rank, err := src.FetchRank(context.Background(), "p"); err != nil || rank != 5 {
		t.Fatalf("expected first call to pass, got %d err=%v", rank, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := src.FetchRank(ctx, "p")
	if err == nil {
		t.Fatal("expected second call to be refused within a short deadline")
	}
	if IsNotFound(err) {
		t.Fatal("expected limiter refusal to be a failure, not a not-found")
	}
	if inner.calls != 1 {
		t.Fatalf("expected inner called once, got %d", inner.calls)
	}
}
