package testutil

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/rankselect/bitvec"
)

// ErrUnalignedSize is returned when a vector size is not a positive multiple of 64.
var ErrUnalignedSize = errors.New("size must be a positive multiple of 64")

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
	r.rand.Seed(r.seed)
}

// SetSeed reseeds the RNG.
func (r *RNG) SetSeed(seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seed = seed
	r.rand.Seed(seed)
}

// Seed returns the current seed.
func (r *RNG) Seed() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

func checkSize(n int) error {
	if n <= 0 || n%bitvec.WordBits != 0 {
		return fmt.Errorf("%w: got %d", ErrUnalignedSize, n)
	}
	return nil
}

// BitVector returns n uniformly random bits packed into n/64 words.
// n must be a positive multiple of 64.
func (r *RNG) BitVector(n int) ([]uint64, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	words := make([]uint64, n/bitvec.WordBits)
	for i := range words {
		words[i] = r.rand.Uint64()
	}
	return words, nil
}

// MustBitVector is like BitVector but panics on error.
func (r *RNG) MustBitVector(n int) []uint64 {
	words, err := r.BitVector(n)
	if err != nil {
		panic(err)
	}
	return words
}

// DensityVector returns n random bits where each bit is set with probability p.
// Low densities produce long runs of equal rank, which exercise the leftmost
// tie-break of the binary-search selects.
func (r *RNG) DensityVector(n int, p float64) ([]uint64, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	words := make([]uint64, n/bitvec.WordBits)
	for i := 0; i < n; i++ {
		if r.rand.Float64() < p {
			words[i>>6] |= uint64(1) << (63 - uint(i&63))
		}
	}
	return words, nil
}

// Queries returns q random arguments in [2, n) followed by n and 1, the
// shape used by the benchmark driver. n must be greater than 2.
func (r *RNG) Queries(q, n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, 0, q+2)
	for i := 0; i < q; i++ {
		out = append(out, 2+r.rand.Intn(n-2))
	}
	return append(out, n, 1)
}

// Position returns a random position in [1, n].
func (r *RNG) Position(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n) + 1
}
