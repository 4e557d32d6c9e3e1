package host

import (
	"context"
	"fmt"
	"strings"
)

// Command is one outbound admin command, expressed as the word list the game
// server's admin protocol expects.
type Command struct {
	Words []string `json:"words"`
}

func (c Command) String() string {
	return strings.Join(c.Words, " ")
}

// Commander delivers commands to the game server host.
type Commander interface {
	Send(ctx context.Context, cmd Command) error
}

// CommanderFunc adapts a function to Commander.
type CommanderFunc func(ctx context.Context, cmd Command) error

func (f CommanderFunc) Send(ctx context.Context, cmd Command) error { return f(ctx, cmd) }

// ListPlayers asks the host for a full player-list snapshot.
func ListPlayers() Command {
	return Command{Words: []string{"admin.listPlayers", "all"}}
}

// ListReserved asks the host for the reserved-slots list.
func ListReserved() Command {
	return Command{Words: []string{"reservedSlots.list"}}
}

// Kick removes a player from the server with a rank-based reason.
func Kick(player string, rank int) Command {
	reason := fmt.Sprintf("You got kicked due to your Player Rank (%d) being too high!", rank)
	return Command{Words: []string{"admin.kickPlayer", player, reason}}
}

// Say broadcasts that a player was kicked for their rank.
func Say(player string, rank int) Command {
	msg := fmt.Sprintf("Kicked '%s' because their Player Rank (%d) is too high!", player, rank)
	return Command{Words: []string{"admin.say", msg}}
}

// ConsoleWrite prints a line on the host's plugin console.
func ConsoleWrite(text string) Command {
	return Command{Words: []string{"procon.protected.pluginconsole.write", text}}
}
