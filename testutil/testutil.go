package testutil

import (
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
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Ints returns num pseudo-random numbers in [0,n).
func (r *RNG) Ints(num, n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, num)
	for i := range out {
		out[i] = r.rand.Intn(n)
	}
	return out
}

// Words returns num random lowercase strings of the given length.
func (r *RNG) Words(num, length int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, num)
	buf := make([]byte, length)
	for i := range out {
		for j := range buf {
			buf[j] = byte('a' + r.rand.Intn(26))
		}
		out[i] = string(buf)
	}
	return out
}

// Record is a small composite element used to exercise codecs.
type Record struct {
	ID    uint64   `json:"id"`
	Name  string   `json:"name"`
	Score float64  `json:"score"`
	Tags  []string `json:"tags,omitempty"`
}

// Records returns num random records with sequential IDs.
func (r *RNG) Records(num int) []Record {
	names := r.Words(num, 6)

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, num)
	for i := range out {
		out[i] = Record{
			ID:    uint64(i),
			Name:  names[i],
			Score: float64(r.rand.Intn(1000)) / 8,
		}
		if i%3 == 0 {
			out[i].Tags = []string{"even", names[i][:2]}
		}
	}
	return out
}
