package server

import (
	"log/slog"

	"github.com/preston-bernstein/rank-kicker/internal/config"
	"github.com/preston-bernstein/rank-kicker/internal/metrics"
	"github.com/preston-bernstein/rank-kicker/internal/stats"
	"github.com/preston-bernstein/rank-kicker/internal/stats/bfbcs"
	"github.com/preston-bernstein/rank-kicker/internal/stats/gametracker"
)

// buildSources returns the stat sources in lookup order (HTML scrape first,
// then the JSON API), each instrumented and optionally rate limited.
func buildSources(cfg config.StatsConfig, recorder *metrics.Recorder, logger *slog.Logger) []stats.Source {
	base := []stats.Source{
		gametracker.NewClient(gametracker.Config{BaseURL: cfg.GametrackerURL, Timeout: cfg.Timeout}),
		bfbcs.NewClient(bfbcs.Config{BaseURL: cfg.BfbcsURL, Timeout: cfg.Timeout}),
	}
	out := make([]stats.Source, 0, len(base))
	for _, src := range base {
		wrapped := stats.NewInstrumentedSource(src, recorder, logger)
		out = append(out, stats.NewRateLimitedSource(wrapped, cfg.RateLimit, logger))
	}
	return out
}
