package random

import "sync"

// Scripted replays a fixed sequence of draws, clamping each value into the
// requested range. Once the script is exhausted it returns the lower bound.
// Intended for deterministic tests of handlers.
type Scripted struct {
	mu     sync.Mutex
	values []int
	calls  int
}

// NewScripted returns a Source that yields values in order.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

func (s *Scripted) Between(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.values) == 0 {
		return lo
	}
	v := s.values[0]
	s.values = s.values[1:]
	return max(lo, min(hi, v))
}

// Calls returns how many draws were made.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Low always returns the lower bound; High always the upper bound.
type (
	Low  struct{}
	High struct{}
)

func (Low) Between(lo, hi int) int  { return min(lo, hi) }
func (High) Between(lo, hi int) int { return max(lo, hi) }
