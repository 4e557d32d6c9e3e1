package host

import (
	"context"
	"reflect"
	"testing"
)

func TestCommandWords(t *testing.T) {
	cases := []struct {
		cmd      Command
		expected []string
	}{
		{ListPlayers(), []string{"admin.listPlayers", "all"}},
		{ListReserved(), []string{"reservedSlots.list"}},
		{Kick("Alpha", 60), []string{"admin.kickPlayer", "Alpha", "You got kicked due to your Player Rank (60) being too high!"}},
		{Say("Alpha", 60), []string{"admin.say", "Kicked 'Alpha' because their Player Rank (60) is too high!"}},
		{ConsoleWrite("hi"), []string{"procon.protected.pluginconsole.write", "hi"}},
	}
	for _, tc := range cases {
		if !reflect.DeepEqual(tc.cmd.Words, tc.expected) {
			t.Fatalf("expected %v, got %v", tc.expected, tc.cmd.Words)
		}
	}
	if got := ListPlayers().String(); got != "admin.listPlayers all" {
		t.Fatalf("unexpected string form %q", got)
	}
}

func TestCommanderFunc(t *testing.T) {
	var got Command
	var c Commander = CommanderFunc(func(ctx context.Context, cmd Command) error {
		got = cmd
		return nil
	})
	if err := c.Send(context.Background(), ListReserved()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Words[0] != "reservedSlots.list" {
		t.Fatalf("unexpected command %+v", got)
	}
}
