package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/logging"
	"github.com/preston-bernstein/rank-kicker/internal/metrics"
)

// instrumentedSource records metrics and debug logs for every lookup.
type instrumentedSource struct {
	next     Source
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewInstrumentedSource wraps next with per-attempt metrics and logging.
func NewInstrumentedSource(next Source, recorder *metrics.Recorder, logger *slog.Logger) Source {
	return &instrumentedSource{next: next, recorder: recorder, logger: logger}
}

func (s *instrumentedSource) Name() string {
	return s.next.Name()
}

func (s *instrumentedSource) FetchRank(ctx context.Context, player string) (int, error) {
	start := time.Now()
	rank, err := s.next.FetchRank(ctx, player)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeFound
	switch {
	case err == nil:
	case IsNotFound(err):
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
		if statusErr, ok := AsStatusError(err); ok && statusErr.RateLimited() {
			s.recorder.RecordRateLimit(s.Name(), statusErr.RetryAfter)
		}
	}
	s.recorder.RecordSourceAttempt(s.Name(), outcome, elapsed)

	logWithSource(ctx, logging.FromContext(ctx, s.logger), slog.LevelDebug, s.Name(), "stat lookup",
		slog.String(logging.FieldPlayer, player),
		slog.Int(logging.FieldRank, rank),
		slog.String("outcome", outcome),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	return rank, err
}
