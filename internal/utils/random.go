package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource is the sampling surface every generator draws from.
// Risk tables, the transaction simulator and the orchestrator take this
// interface so tests can pin the sequence with a fixed seed.
type RandomSource interface {
	IntN(n int) int
	IntRange(min, max int) int
	Float64() float64
	Float64Range(min, max float64) float64
	Probability(p float64) bool
	Shuffle(n int, swap func(i, j int))
}

// Random is a seedable PCG-backed RandomSource. It is safe for concurrent
// use, but a single generation run should own its own instance (see Fork)
// so that a fixed seed reproduces the same cohort.
type Random struct {
	rng    *rand.Rand
	seed   uint64
	stream uint64
	mu     sync.Mutex
}

// NewRandom creates a new Random instance with the given seed.
// If seed is 0, a cryptographically random seed is generated.
func NewRandom(seed int64) *Random {
	var actualSeed uint64
	if seed == 0 {
		actualSeed = generateRandomSeed()
	} else {
		actualSeed = uint64(seed)
	}

	return newPCG(actualSeed, actualSeed^0xDEADBEEF)
}

func newPCG(seed, stream uint64) *Random {
	return &Random{
		rng:    rand.New(rand.NewPCG(seed, stream)),
		seed:   seed,
		stream: stream,
	}
}

func generateRandomSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Seed returns the seed used to initialize this RNG
func (r *Random) Seed() uint64 {
	return r.seed
}

// Fork creates a new Random instance with a seed derived from this one.
// Forks taken in a fixed order from a seeded parent are themselves
// reproducible, whichever goroutine later draws from them.
func (r *Random) Fork() *Random {
	r.mu.Lock()
	defer r.mu.Unlock()

	newSeed := r.rng.Uint64()
	return newPCG(newSeed, newSeed^0xCAFEBABE)
}

// Restart returns a fresh instance positioned at the start of this
// instance's sequence. Draws already taken from r do not affect it.
func (r *Random) Restart() *Random {
	return newPCG(r.seed, r.stream)
}

// IntN returns a pseudo-random int in [0, n)
func (r *Random) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// IntRange returns a pseudo-random int in [min, max]
func (r *Random) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return min + r.IntN(max-min+1)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0)
func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Float64Range returns a pseudo-random float64 in [min, max)
func (r *Random) Float64Range(min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + r.Float64()*(max-min)
}

// Probability returns true with the given probability (0.0 to 1.0)
func (r *Random) Probability(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Shuffle performs an unbiased Fisher-Yates shuffle over n elements.
func (r *Random) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := r.rng.IntN(i + 1)
		swap(i, j)
	}
}

// Pick returns a random element of the slice, or the zero value when empty.
func Pick[T any](rng RandomSource, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[rng.IntN(len(items))]
}

// RoundedRange samples [min, max] and rounds to the given decimal places.
// Ranges in the risk tables are closed at two decimal places, so rounding
// after sampling keeps the result inside the documented bounds.
func RoundedRange(rng RandomSource, min, max float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	v := math.Round(rng.Float64Range(min, max)*scale) / scale
	if v > max {
		return max
	}
	if v < min {
		return min
	}
	return v
}

// DateBetween returns a random instant between start and end.
func DateBetween(rng RandomSource, start, end time.Time) time.Time {
	if !start.Before(end) {
		return start
	}
	delta := end.Sub(start)
	return start.Add(time.Duration(rng.Float64() * float64(delta)))
}

// NumericString generates a random numeric string of the given length
func NumericString(rng RandomSource, length int) string {
	const charset = "0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rng.IntN(len(charset))]
	}
	return string(result)
}

// LetterString generates a random uppercase string of the given length
func LetterString(rng RandomSource, length int) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = 'A' + byte(rng.IntN(26))
	}
	return string(result)
}
