package testutil

import (
	"context"
	"sync"

	"github.com/preston-bernstein/rank-kicker/internal/host"
)

// RecordingCommander captures every command sent to it. Safe for concurrent use.
// Err is returned from every Send after recording the command.
type RecordingCommander struct {
	Err error

	mu   sync.Mutex
	cmds []host.Command
}

// Send records cmd and returns Err.
func (c *RecordingCommander) Send(ctx context.Context, cmd host.Command) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds = append(c.cmds, cmd)
	return c.Err
}

// Commands returns a copy of the recorded commands in send order.
func (c *RecordingCommander) Commands() []host.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]host.Command(nil), c.cmds...)
}

// Verbs returns the first word of every recorded command.
func (c *RecordingCommander) Verbs() []string {
	cmds := c.Commands()
	out := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		if len(cmd.Words) > 0 {
			out = append(out, cmd.Words[0])
		}
	}
	return out
}

// Count returns how many recorded commands start with verb.
func (c *RecordingCommander) Count(verb string) int {
	n := 0
	for _, v := range c.Verbs() {
		if v == verb {
			n++
		}
	}
	return n
}

// Reset drops everything recorded so far.
func (c *RecordingCommander) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds = nil
}
