package config

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Settings are the host-adjustable variables that drive a decision pass.
// Values are immutable; updates produce a new Settings. CheckInterval is the
// poll period in seconds; zero or less disables polling.
type Settings struct {
	RankLimit       int
	CheckInterval   int
	IgnoreReserved  bool
	CaseInsensitive bool
}

// DefaultSettings returns the values used before the host sets anything.
func DefaultSettings() Settings {
	return Settings{
		RankLimit:     defaultRankLimit,
		CheckInterval: defaultCheckInterval,
	}
}

// Apply returns a copy of s with the named variable set from raw.
// ok is false when the name is unknown or raw does not parse; s is returned unchanged.
func (s Settings) Apply(name, raw string) (Settings, bool) {
	switch name {
	case VarRankLimit:
		v, ok := parseInt(raw)
		if !ok {
			return s, false
		}
		s.RankLimit = v
	case VarCheckInterval:
		v, ok := parseInt(raw)
		if !ok {
			return s, false
		}
		s.CheckInterval = v
	case VarIgnoreReserved:
		v, ok := parseBool(raw)
		if !ok {
			return s, false
		}
		s.IgnoreReserved = v
	case VarCaseInsensitive:
		v, ok := parseBool(raw)
		if !ok {
			return s, false
		}
		s.CaseInsensitive = v
	default:
		return s, false
	}
	return s, true
}

// Variable is one host-visible setting.
type Variable struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Variables lists the settings in host display order.
func (s Settings) Variables() []Variable {
	return []Variable{
		{Name: VarRankLimit, Type: "int", Value: strconv.Itoa(s.RankLimit)},
		{Name: VarCheckInterval, Type: "int", Value: strconv.Itoa(s.CheckInterval)},
		{Name: VarIgnoreReserved, Type: "bool", Value: strconv.FormatBool(s.IgnoreReserved)},
		{Name: VarCaseInsensitive, Type: "bool", Value: strconv.FormatBool(s.CaseInsensitive)},
	}
}

func parseInt(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseBool(raw string) (bool, bool) {
	switch v := strings.TrimSpace(raw); {
	case strings.EqualFold(v, "true"):
		return true, true
	case strings.EqualFold(v, "false"):
		return false, true
	default:
		return false, false
	}
}

// SettingsStore holds the current Settings and swaps them atomically.
type SettingsStore struct {
	current atomic.Pointer[Settings]
}

// NewSettingsStore returns a store seeded with initial.
func NewSettingsStore(initial Settings) *SettingsStore {
	s := &SettingsStore{}
	s.current.Store(&initial)
	return s
}

// Load returns the current settings value.
func (s *SettingsStore) Load() Settings {
	return *s.current.Load()
}

// Apply sets one variable. It returns the previous and resulting settings and
// whether anything was applied; unparsable input leaves the store untouched.
func (s *SettingsStore) Apply(name, raw string) (prev, next Settings, ok bool) {
	for {
		cur := s.current.Load()
		updated, applied := cur.Apply(name, raw)
		if !applied {
			return *cur, *cur, false
		}
		if s.current.CompareAndSwap(cur, &updated) {
			return *cur, updated, true
		}
	}
}
