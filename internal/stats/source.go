package stats

import (
	"context"
	"errors"
)

// Source looks up a player's rank on an external stats service.
//
// FetchRank returns ErrNotFound (possibly wrapped) when the service has no
// usable rank for the player; any other error is a lookup failure worth
// reporting. A nil error always comes with a rank the caller may use.
type Source interface {
	Name() string
	FetchRank(ctx context.Context, player string) (int, error)
}

// ErrNotFound marks a lookup that succeeded but found no rank.
var ErrNotFound = errors.New("stats not found")

// IsNotFound reports whether err is a "no stats" outcome rather than a failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
