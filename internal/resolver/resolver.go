package resolver

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/rank-kicker/internal/logging"
	"github.com/preston-bernstein/rank-kicker/internal/stats"
)

// Unresolved is the rank reported when no source produced one.
const Unresolved = 0

// Reporter receives lookup failures for display to server administrators.
type Reporter interface {
	Report(component string, err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(component string, err error)

func (f ReporterFunc) Report(component string, err error) { f(component, err) }

// Resolver picks a player's rank from the in-band value or, failing that,
// from the stat sources in order.
type Resolver struct {
	sources  []stats.Source
	reporter Reporter
	logger   *slog.Logger
}

// New constructs a Resolver that consults sources in the given order.
func New(sources []stats.Source, reporter Reporter, logger *slog.Logger) *Resolver {
	return &Resolver{
		sources:  append([]stats.Source(nil), sources...),
		reporter: reporter,
		logger:   logger,
	}
}

// Resolve returns inBand when it is non-zero without touching the network.
// Otherwise it returns the first positive rank from the sources, or
// Unresolved when every source comes back empty or fails. Failures are
// reported; "no stats" answers are not.
func (r *Resolver) Resolve(ctx context.Context, player string, inBand int) int {
	if inBand != 0 {
		return inBand
	}
	for _, src := range r.sources {
		if ctx.Err() != nil {
			return Unresolved
		}
		rank, err := r.fetch(ctx, src, player)
		if err != nil {
			if stats.IsNotFound(err) {
				logging.Debug(r.logger, "no stats for player",
					slog.String(logging.FieldSource, src.Name()),
					slog.String(logging.FieldPlayer, player),
				)
			} else {
				r.report(src.Name(), err)
			}
			continue
		}
		if rank > 0 {
			return rank
		}
	}
	return Unresolved
}

// fetch isolates one source call so a panicking source cannot take down the pass.
func (r *Resolver) fetch(ctx context.Context, src stats.Source, player string) (rank int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			rank, err = 0, panicError{value: rec}
		}
	}()
	return src.FetchRank(ctx, player)
}

func (r *Resolver) report(component string, err error) {
	if r.reporter != nil {
		r.reporter.Report(component, err)
		return
	}
	logging.Warn(r.logger, "stat lookup failed", slog.String(logging.FieldSource, component), "error", err)
}
