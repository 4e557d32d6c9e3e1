package stats

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

// rateLimitedSource spaces calls to a stats service with a token bucket.
type rateLimitedSource struct {
	next    Source
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedSource returns a Source that allows at most perSecond calls
// per second (burst of one). A non-positive rate returns next unchanged.
// Waiting honours the caller's deadline, so a starved lookup fails like a timeout.
func NewRateLimitedSource(next Source, perSecond float64, logger *slog.Logger) Source {
	if perSecond <= 0 {
		return next
	}
	return &rateLimitedSource{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger,
	}
}

func (s *rateLimitedSource) Name() string {
	return s.next.Name()
}

func (s *rateLimitedSource) FetchRank(ctx context.Context, player string) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		logWithSource(ctx, s.logger, slog.LevelWarn, s.Name(), "rate-limited lookup canceled", "err", err)
		return 0, fmt.Errorf("%s: rate limit wait: %w", s.Name(), err)
	}
	return s.next.FetchRank(ctx, player)
}
