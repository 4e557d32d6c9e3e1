package reserved

import (
	"sort"
	"sync"

	"golang.org/x/text/cases"
)

// Set keeps the reserved-slot player names reported by the host.
//
// Members are stored with their original spelling alongside a case-folded
// index, so switching the comparison mode never loses or merges members.
// All access goes through one mutex; the host may deliver notifications while
// a decision pass is querying the set.
type Set struct {
	mu              sync.Mutex
	members         map[string]struct{}
	folded          map[string]int
	caseInsensitive bool
}

// NewSet constructs an empty Set using the given comparison mode.
func NewSet(caseInsensitive bool) *Set {
	return &Set{
		members:         make(map[string]struct{}),
		folded:          make(map[string]int),
		caseInsensitive: caseInsensitive,
	}
}

// Add inserts name. Under case-insensitive comparison a name that matches an
// existing member is not added again.
func (s *Set) Add(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(name)
}

// Remove deletes name if present. Under case-insensitive comparison every
// member matching name is removed.
func (s *Set) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.caseInsensitive {
		if _, ok := s.members[name]; ok {
			s.deleteLocked(name)
		}
		return
	}
	key := fold(name)
	if s.folded[key] == 0 {
		return
	}
	for member := range s.members {
		if fold(member) == key {
			s.deleteLocked(member)
		}
	}
}

// ReplaceAll swaps the whole membership for names. An empty list leaves the
// set empty, the same as Clear.
func (s *Set) ReplaceAll(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(len(names))
	for _, name := range names {
		s.addLocked(name)
	}
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(0)
}

// Contains reports membership using the set's current comparison mode.
func (s *Set) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(name, s.caseInsensitive)
}

// ContainsFold reports membership using an explicit comparison mode. A
// decision pass pins the mode once and uses this for every player.
func (s *Set) ContainsFold(name string, caseInsensitive bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(name, caseInsensitive)
}

// SetCaseInsensitive switches the comparison mode. Membership is unchanged.
func (s *Set) SetCaseInsensitive(caseInsensitive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseInsensitive = caseInsensitive
}

// CaseInsensitive reports the current comparison mode.
func (s *Set) CaseInsensitive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caseInsensitive
}

// Len returns the number of stored members.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// Members returns a sorted copy of the stored names.
func (s *Set) Members() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.members))
	for name := range s.members {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Set) addLocked(name string) {
	if s.containsLocked(name, s.caseInsensitive) {
		return
	}
	s.members[name] = struct{}{}
	s.folded[fold(name)]++
}

func (s *Set) deleteLocked(name string) {
	delete(s.members, name)
	key := fold(name)
	if s.folded[key] <= 1 {
		delete(s.folded, key)
		return
	}
	s.folded[key]--
}

func (s *Set) containsLocked(name string, caseInsensitive bool) bool {
	if caseInsensitive {
		return s.folded[fold(name)] > 0
	}
	_, ok := s.members[name]
	return ok
}

func (s *Set) resetLocked(capacity int) {
	s.members = make(map[string]struct{}, capacity)
	s.folded = make(map[string]int, capacity)
}

// fold returns the case-folded key for name. Casers are stateful, so each
// call gets its own.
func fold(name string) string {
	return cases.Fold().String(name)
}
