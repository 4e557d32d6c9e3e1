package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/host"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
)

const diagnosticTimeout = 5 * time.Second

// Diagnostics writes internal failures to the host's plugin console so server
// administrators can see them. It satisfies resolver.Reporter.
type Diagnostics struct {
	commander host.Commander
	logger    *slog.Logger
}

// NewDiagnostics constructs a Diagnostics that writes through commander.
func NewDiagnostics(commander host.Commander, logger *slog.Logger) *Diagnostics {
	return &Diagnostics{commander: commander, logger: logger}
}

// Report emits "<component> Exception: <message>" for err.
func (d *Diagnostics) Report(component string, err error) {
	if d == nil || err == nil {
		return
	}
	line := fmt.Sprintf("%s.%s Exception: %s", className, component, err.Error())
	logging.Warn(d.logger, "diagnostic reported",
		slog.String("component", component),
		"error", err,
	)
	if d.commander == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), diagnosticTimeout)
	defer cancel()
	if sendErr := d.commander.Send(ctx, host.ConsoleWrite(line)); sendErr != nil {
		logging.Debug(d.logger, "diagnostic not delivered", "error", sendErr)
	}
}
