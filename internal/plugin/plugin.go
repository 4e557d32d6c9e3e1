package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/config"
	"github.com/preston-bernstein/rank-kicker/internal/domain/players"
	"github.com/preston-bernstein/rank-kicker/internal/host"
	"github.com/preston-bernstein/rank-kicker/internal/kicker"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
	"github.com/preston-bernstein/rank-kicker/internal/reserved"
	"github.com/preston-bernstein/rank-kicker/internal/scheduler"
)

const (
	// Name is the display name shown on the host console.
	Name      = "Rank Kicker"
	className = "RankKicker"
)

// Evaluator runs one decision pass over a player-list snapshot.
type Evaluator interface {
	Evaluate(ctx context.Context, snapshot []players.Entry) kicker.Result
}

// Options wires a Plugin's collaborators.
type Options struct {
	Commander   host.Commander
	Engine      Evaluator
	Reserved    *reserved.Set
	Settings    *config.SettingsStore
	Diagnostics *Diagnostics
	Logger      *slog.Logger
}

// Plugin adapts host notifications onto the reserved set, the settings and the
// decision engine. No entry point lets an error or panic escape; failures go
// to the host console through Diagnostics.
type Plugin struct {
	commander host.Commander
	engine    Evaluator
	reserved  *reserved.Set
	settings  *config.SettingsStore
	diag      *Diagnostics
	logger    *slog.Logger
	poll      *scheduler.Task

	mu      sync.Mutex
	enabled bool
	runCtx  context.Context
}

// New constructs a disabled Plugin.
func New(opts Options) *Plugin {
	settings := opts.Settings
	if settings == nil {
		settings = config.NewSettingsStore(config.DefaultSettings())
	}
	set := opts.Reserved
	if set == nil {
		set = reserved.NewSet(settings.Load().CaseInsensitive)
	}
	diag := opts.Diagnostics
	if diag == nil {
		diag = NewDiagnostics(opts.Commander, opts.Logger)
	}
	p := &Plugin{
		commander: opts.Commander,
		engine:    opts.Engine,
		reserved:  set,
		settings:  settings,
		diag:      diag,
		logger:    opts.Logger,
		runCtx:    context.Background(),
	}
	p.poll = scheduler.New(className, p.requestPlayers, opts.Logger)
	return p
}

// Enable starts the plugin: the reserved set is rebuilt from the host's list
// and player polling is scheduled.
func (p *Plugin) Enable(ctx context.Context) {
	p.guard("OnPluginEnable", func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.enabled {
			return
		}
		p.enabled = true
		p.runCtx = ctx

		p.reserved.Clear()
		p.send(ctx, host.ListReserved())
		p.send(ctx, host.ConsoleWrite("^b"+Name+" ^2Enabled!"))
		if !p.scheduleLocked() {
			p.send(ctx, host.ListPlayers())
		}
		logging.Info(p.logger, "plugin enabled")
	})
}

// Disable stops polling and forgets the reserved set.
func (p *Plugin) Disable(ctx context.Context) {
	p.guard("OnPluginDisable", func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if !p.enabled {
			return
		}
		p.enabled = false

		p.reserved.Clear()
		p.poll.Stop()
		p.send(ctx, host.ConsoleWrite("^b"+Name+" ^1Disabled =("))
		logging.Info(p.logger, "plugin disabled")
	})
}

// Enabled reports whether the plugin is handling events.
func (p *Plugin) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// OnPlayerJoin requests a fresh player list so the newcomer is evaluated.
func (p *Plugin) OnPlayerJoin(ctx context.Context, player string) {
	p.handle("OnPlayerJoin", func() {
		logging.Debug(p.logger, "player joined", slog.String(logging.FieldPlayer, player))
		p.send(ctx, host.ListPlayers())
	})
}

// OnReservedSlotsPlayerAdded adds player to the reserved set.
func (p *Plugin) OnReservedSlotsPlayerAdded(ctx context.Context, player string) {
	p.handle("OnReservedSlotsPlayerAdded", func() {
		p.reserved.Add(player)
	})
}

// OnReservedSlotsPlayerRemoved removes player and re-evaluates everyone.
func (p *Plugin) OnReservedSlotsPlayerRemoved(ctx context.Context, player string) {
	p.handle("OnReservedSlotsPlayerRemoved", func() {
		p.reserved.Remove(player)
		p.send(ctx, host.ListPlayers())
	})
}

// OnReservedSlotsList replaces the reserved set and re-evaluates everyone.
// An empty list is the same as a clear.
func (p *Plugin) OnReservedSlotsList(ctx context.Context, names []string) {
	p.handle("OnReservedSlotsList", func() {
		p.reserved.ReplaceAll(names)
		logging.Debug(p.logger, "reserved list replaced", slog.Int(logging.FieldCount, len(names)))
		p.send(ctx, host.ListPlayers())
	})
}

// OnReservedSlotsCleared empties the reserved set.
func (p *Plugin) OnReservedSlotsCleared(ctx context.Context) {
	p.handle("OnReservedSlotsCleared", func() {
		p.reserved.Clear()
	})
}

// OnListPlayers runs a decision pass over the snapshot.
func (p *Plugin) OnListPlayers(ctx context.Context, snapshot []players.Entry) {
	p.handle("OnListPlayers", func() {
		if p.engine == nil {
			return
		}
		p.engine.Evaluate(ctx, snapshot)
	})
}

// SetVariable applies one host variable. It reports whether the value was
// accepted; unknown names and unparsable values leave the settings unchanged.
func (p *Plugin) SetVariable(ctx context.Context, name, value string) bool {
	var applied bool
	p.guard("SetPluginVariable", func() {
		prev, next, ok := p.settings.Apply(name, value)
		if !ok {
			logging.Warn(p.logger, "variable ignored",
				slog.String(logging.FieldVariable, name),
				slog.String("value", value),
			)
			return
		}
		applied = true
		logging.Info(p.logger, "variable set",
			slog.String(logging.FieldVariable, name),
			slog.String("value", value),
		)

		switch name {
		case config.VarCheckInterval:
			p.mu.Lock()
			if p.enabled {
				p.scheduleLocked()
			}
			p.mu.Unlock()
		case config.VarCaseInsensitive:
			if prev.CaseInsensitive != next.CaseInsensitive {
				p.reserved.SetCaseInsensitive(next.CaseInsensitive)
			}
		}
	})
	return applied
}

// Variables lists the current host variables.
func (p *Plugin) Variables() []config.Variable {
	return p.settings.Load().Variables()
}

// Settings returns the current settings value.
func (p *Plugin) Settings() config.Settings {
	return p.settings.Load()
}

// Reserved returns the sorted members of the reserved set.
func (p *Plugin) Reserved() []string {
	return p.reserved.Members()
}

// PollStatus returns the health of the player-list poll.
func (p *Plugin) PollStatus() scheduler.Status {
	return p.poll.Status()
}

// Ready reports whether the plugin is enabled and polling is healthy or
// switched off. The string explains a false answer.
func (p *Plugin) Ready() (bool, string) {
	if !p.Enabled() {
		return false, "plugin disabled"
	}
	if p.poll.Interval() <= 0 {
		return true, ""
	}
	status := p.poll.Status()
	if status.IsReady() {
		return true, ""
	}
	if status.LastError != "" {
		return false, status.LastError
	}
	return false, "awaiting first poll"
}

// HandleEvent dispatches one host event. Variable updates are accepted at any
// time; every other event is dropped while the plugin is disabled.
func (p *Plugin) HandleEvent(ctx context.Context, evt host.Event) {
	logging.Debug(p.logger, "host event", slog.String(logging.FieldEvent, evt.Type))
	switch evt.Type {
	case host.EventVariableSet:
		p.SetVariable(ctx, evt.Name, evt.Value)
	case host.EventPlayerJoin:
		p.OnPlayerJoin(ctx, evt.Name)
	case host.EventPlayersList:
		p.OnListPlayers(ctx, evt.Players)
	case host.EventReservedAdded:
		p.OnReservedSlotsPlayerAdded(ctx, evt.Name)
	case host.EventReservedRemoved:
		p.OnReservedSlotsPlayerRemoved(ctx, evt.Name)
	case host.EventReservedList:
		p.OnReservedSlotsList(ctx, evt.Names)
	case host.EventReservedCleared:
		p.OnReservedSlotsCleared(ctx)
	default:
		logging.Warn(p.logger, "unhandled host event", slog.String(logging.FieldEvent, evt.Type))
	}
}

// Close stops polling without notifying the host.
func (p *Plugin) Close() {
	p.poll.Stop()
}

// scheduleLocked replaces the poll schedule from the current interval and
// reports whether polling is active. Callers hold p.mu.
func (p *Plugin) scheduleLocked() bool {
	interval := time.Duration(p.settings.Load().CheckInterval) * time.Second
	p.poll.Reset(p.runCtx, interval)
	return interval > 0
}

func (p *Plugin) requestPlayers(ctx context.Context) error {
	if p.commander == nil {
		return nil
	}
	return p.commander.Send(ctx, host.ListPlayers())
}

func (p *Plugin) send(ctx context.Context, cmd host.Command) {
	if p.commander == nil {
		return
	}
	if err := p.commander.Send(ctx, cmd); err != nil {
		logging.Warn(p.logger, "command delivery failed",
			slog.String(logging.FieldCommand, cmd.Words[0]),
			"error", err,
		)
	}
}

// handle runs fn for an event handler, skipping it while disabled.
func (p *Plugin) handle(component string, fn func()) {
	if !p.Enabled() {
		logging.Debug(p.logger, "event ignored while disabled", slog.String("component", component))
		return
	}
	p.guard(component, fn)
}

func (p *Plugin) guard(component string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			p.diag.Report(component, fmt.Errorf("%v", rec))
		}
	}()
	fn()
}
