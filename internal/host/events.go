package host

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/preston-bernstein/rank-kicker/internal/domain/players"
)

// Event types delivered by the host.
const (
	EventPlayerJoin      = "player.join"
	EventPlayersList     = "players.list"
	EventReservedAdded   = "reserved.added"
	EventReservedRemoved = "reserved.removed"
	EventReservedList    = "reserved.list"
	EventReservedCleared = "reserved.cleared"
	EventVariableSet     = "variable.set"
)

// Event is the envelope for every host notification.
type Event struct {
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	Names   []string        `json:"names,omitempty"`
	Players []players.Entry `json:"players,omitempty"`
	Value   string          `json:"value,omitempty"`
}

var errMissingName = errors.New("event requires a name")

// DecodeEvent parses and validates one event.
func DecodeEvent(data []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if err := evt.Validate(); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// Validate checks that the event carries the fields its type needs.
func (e Event) Validate() error {
	switch e.Type {
	case EventPlayerJoin, EventReservedAdded, EventReservedRemoved, EventVariableSet:
		if e.Name == "" {
			return fmt.Errorf("%s: %w", e.Type, errMissingName)
		}
	case EventPlayersList, EventReservedList, EventReservedCleared:
	case "":
		return errors.New("event type is required")
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}
