package testutil

import (
	"iter"
	"maps"
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Perm returns a random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// Shuffle shuffles s in place.
func Shuffle[T any](r *RNG, s []T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// OpKind is the kind of a churn operation.
type OpKind uint8

const (
	// OpInsert adds a new element.
	OpInsert OpKind = iota
	// OpErase removes the live element at position Pick mod live count.
	OpErase
)

// Op is one step of a churn workload.
type Op struct {
	Kind OpKind
	Pick int
}

// Churn generates n operations where each one is an erase with probability
// eraseRatio. Erases pick their victim by a position that callers reduce
// modulo the current number of live elements; an erase with nothing live is
// meant to be turned into an insert.
func (r *RNG) Churn(n int, eraseRatio float64) []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, n)
	for i := range ops {
		if r.rand.Float64() < eraseRatio {
			ops[i] = Op{Kind: OpErase, Pick: r.rand.Int()}
		} else {
			ops[i] = Op{Kind: OpInsert}
		}
	}
	return ops
}

// Shadow is a map-backed reference model used to cross-check containers.
// It also remembers every key ever deleted so tests can assert that stale
// keys stay dead.
type Shadow[K comparable, V any] struct {
	live map[K]V
	keys []K
	dead []K
}

// NewShadow creates an empty Shadow.
func NewShadow[K comparable, V any]() *Shadow[K, V] {
	return &Shadow[K, V]{live: make(map[K]V)}
}

// Put records k -> v. It reports false if k was already live.
func (s *Shadow[K, V]) Put(k K, v V) bool {
	if _, ok := s.live[k]; ok {
		return false
	}
	s.live[k] = v
	s.keys = append(s.keys, k)
	return true
}

// Delete removes the live key at position pick mod Len and returns it.
func (s *Shadow[K, V]) Delete(pick int) K {
	i := pick % len(s.keys)
	k := s.keys[i]
	last := len(s.keys) - 1
	s.keys[i] = s.keys[last]
	s.keys = s.keys[:last]
	delete(s.live, k)
	s.dead = append(s.dead, k)
	return k
}

// Get returns the value of a live key.
func (s *Shadow[K, V]) Get(k K) (V, bool) {
	v, ok := s.live[k]
	return v, ok
}

// Len returns the number of live keys.
func (s *Shadow[K, V]) Len() int {
	return len(s.live)
}

// All yields every live key and value.
func (s *Shadow[K, V]) All() iter.Seq2[K, V] {
	return maps.All(s.live)
}

// Dead returns every key deleted so far.
func (s *Shadow[K, V]) Dead() []K {
	return s.dead
}
