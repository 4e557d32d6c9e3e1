package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/preston-bernstein/rank-kicker/internal/stats"
)

// StubSource is a stats.Source backed by fixed answers. Players without an
// entry in Ranks or Errs come back as stats.ErrNotFound.
type StubSource struct {
	NameVal string
	Ranks   map[string]int
	Errs    map[string]error

	mu    sync.Mutex
	calls map[string]int
}

// Name returns NameVal, defaulting to "stub".
func (s *StubSource) Name() string {
	if s.NameVal == "" {
		return "stub"
	}
	return s.NameVal
}

// FetchRank returns the configured answer for player.
func (s *StubSource) FetchRank(ctx context.Context, player string) (int, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[player]++
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err, ok := s.Errs[player]; ok {
		return 0, err
	}
	if rank, ok := s.Ranks[player]; ok {
		return rank, nil
	}
	return 0, fmt.Errorf("%s: %q: %w", s.Name(), player, stats.ErrNotFound)
}

// Calls reports how many lookups were made for player.
func (s *StubSource) Calls(player string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[player]
}

// TotalCalls reports how many lookups were made overall.
func (s *StubSource) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}
