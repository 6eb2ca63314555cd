// Package random provides the injectable randomness capability used by
// effect handlers. Nothing in the engine reads a process-wide stream; every
// compute and pulse call receives a Source.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source draws uniform integers.
type Source interface {
	// Between returns a uniform integer in [lo, hi]. Bounds are swapped when
	// lo > hi.
	Between(lo, hi int) int
}

// Rand is a Source backed by math/rand. Safe for concurrent use.
type Rand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a seeded Source.
func New(seed int64) *Rand {
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

// NewSeeded returns a Source seeded from crypto/rand, together with the seed
// so a run can be replayed.
func NewSeeded() (*Rand, int64, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, 0, err
	}
	return New(seed), seed, nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (r *Rand) Between(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.Intn(hi-lo+1)
}
