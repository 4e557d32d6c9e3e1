package kicker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/rank-kicker/internal/config"
	"github.com/preston-bernstein/rank-kicker/internal/domain/players"
	"github.com/preston-bernstein/rank-kicker/internal/host"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
	"github.com/preston-bernstein/rank-kicker/internal/metrics"
	"github.com/preston-bernstein/rank-kicker/internal/reserved"
	"github.com/preston-bernstein/rank-kicker/internal/resolver"
)

const defaultWorkers = 4

// RankResolver turns a player and optional in-band rank into a resolved rank.
type RankResolver interface {
	Resolve(ctx context.Context, player string, inBand int) int
}

// Options wires an Engine's collaborators. Workers bounds concurrent rank
// lookups; values below one use the default.
type Options struct {
	Resolver  RankResolver
	Reserved  *reserved.Set
	Settings  *config.SettingsStore
	Commander host.Commander
	Recorder  *metrics.Recorder
	Logger    *slog.Logger
	Workers   int
}

// Result summarizes one decision pass.
type Result struct {
	Evaluated  int
	Exempt     int
	Unresolved int
	Kicked     int
	Duration   time.Duration
}

// Engine runs decision passes over player-list snapshots.
type Engine struct {
	resolver  RankResolver
	reserved  *reserved.Set
	settings  *config.SettingsStore
	commander host.Commander
	recorder  *metrics.Recorder
	logger    *slog.Logger
	workers   int

	passMu sync.Mutex
}

// New constructs an Engine. Missing settings fall back to the defaults and a
// missing reserved set behaves as empty.
func New(opts Options) *Engine {
	workers := opts.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.NewSettingsStore(config.DefaultSettings())
	}
	set := opts.Reserved
	if set == nil {
		set = reserved.NewSet(false)
	}
	return &Engine{
		resolver:  opts.Resolver,
		reserved:  set,
		settings:  settings,
		commander: opts.Commander,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
		workers:   workers,
	}
}

// Evaluate decides every player in snapshot: exempt reserved players are
// skipped, the rest are resolved and kicked when their rank is above the
// limit. Settings are read once at the start of the pass. Passes never
// overlap; a second caller waits for the first to finish.
func (e *Engine) Evaluate(ctx context.Context, snapshot []players.Entry) Result {
	e.passMu.Lock()
	defer e.passMu.Unlock()

	start := time.Now()
	settings := e.settings.Load()

	var exempt, unresolved, kicked atomic.Int64
	var g errgroup.Group
	g.SetLimit(e.workers)

	for _, entry := range snapshot {
		if settings.IgnoreReserved && e.reserved.ContainsFold(entry.Name, settings.CaseInsensitive) {
			exempt.Add(1)
			logging.Debug(e.logger, "reserved player exempt", slog.String(logging.FieldPlayer, entry.Name))
			continue
		}
		g.Go(func() error {
			switch e.decide(ctx, entry, settings.RankLimit) {
			case outcomeUnresolved:
				unresolved.Add(1)
			case outcomeKicked:
				kicked.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := Result{
		Evaluated:  len(snapshot),
		Exempt:     int(exempt.Load()),
		Unresolved: int(unresolved.Load()),
		Kicked:     int(kicked.Load()),
		Duration:   time.Since(start),
	}
	e.recorder.RecordPass(result.Duration, result.Evaluated, result.Kicked)
	logging.Info(e.logger, "decision pass complete",
		slog.Int(logging.FieldCount, result.Evaluated),
		slog.Int("exempt", result.Exempt),
		slog.Int("unresolved", result.Unresolved),
		slog.Int("kicked", result.Kicked),
		slog.Int(logging.FieldRankLimit, settings.RankLimit),
		slog.Int64(logging.FieldDurationMS, result.Duration.Milliseconds()),
	)
	return result
}

type outcome int

const (
	outcomeKept outcome = iota
	outcomeUnresolved
	outcomeKicked
)

func (e *Engine) decide(ctx context.Context, entry players.Entry, limit int) outcome {
	rank := resolver.Unresolved
	if e.resolver != nil {
		rank = e.resolver.Resolve(ctx, entry.Name, entry.Rank)
	} else if entry.HasRank() {
		rank = entry.Rank
	}
	if rank == resolver.Unresolved {
		logging.Debug(e.logger, "rank unresolved, skipping", slog.String(logging.FieldPlayer, entry.Name))
		return outcomeUnresolved
	}
	if rank <= limit {
		return outcomeKept
	}

	logging.Info(e.logger, "kicking player over rank limit",
		slog.String(logging.FieldPlayer, entry.Name),
		slog.Int(logging.FieldRank, rank),
		slog.Int(logging.FieldRankLimit, limit),
	)
	e.send(ctx, host.Kick(entry.Name, rank))
	e.send(ctx, host.Say(entry.Name, rank))
	return outcomeKicked
}

func (e *Engine) send(ctx context.Context, cmd host.Command) {
	if e.commander == nil {
		return
	}
	if err := e.commander.Send(ctx, cmd); err != nil {
		logging.Warn(e.logger, "command delivery failed",
			slog.String(logging.FieldCommand, cmd.Words[0]),
			"error", err,
		)
	}
}
