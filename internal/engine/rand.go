package engine

import (
	"math/rand"
	"sync"
)

// Rand is a mutex-guarded random source shared by the ledger and the
// account selector. Every random decision in the engine (candidate
// shuffling, cap redraws, tie-breaks) draws from one injected source so
// tests can seed it deterministically.
type Rand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRand creates a Rand seeded with the given value.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

// IntRange returns a uniform int in [lo, hi], swapping inverted bounds.
func (r *Rand) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.src.Intn(hi-lo+1)
}

// Shuffle pseudo-randomizes the order of n elements via swap.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Shuffle(n, swap)
}
