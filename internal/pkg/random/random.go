// Package random provides the randomness source injected into the game
// engines, so production code draws from crypto/rand while tests substitute
// a seeded generator and replay exact outcomes.
package random

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source is a uniform random source. Float64 returns a value in [0, 1);
// IntN returns a value in [0, n) and panics if n <= 0, matching math/rand.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// cryptoSource reads from the operating system CSPRNG. It is the default
// source for real play.
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// CSPRNG read failures are effectively impossible on supported
		// platforms; fall back to the global PRNG rather than aborting play.
		return rand.Float64()
	}
	// Keep the top 53 bits so the result is uniform on [0, 1).
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func (c cryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("random: IntN called with n <= 0")
	}
	return int(c.Float64() * float64(n))
}

// Default returns the crypto-backed source.
func Default() Source { return cryptoSource{} }

// seededSource is a replicable PRNG for tests and simulations.
type seededSource struct{ r *rand.Rand }

// NewSeeded returns a deterministic source for the given seed.
func NewSeeded(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }

func (s *seededSource) IntN(n int) int { return s.r.IntN(n) }

// Fixed returns a source that replays the given [0, 1) values in order and
// falls back to a zero-seeded PRNG once they are exhausted. Tests use it to
// pin a single decisive draw.
func Fixed(values ...float64) Source {
	return &fixedSource{values: values, fallback: NewSeeded(0)}
}

type fixedSource struct {
	values   []float64
	next     int
	fallback Source
}

func (f *fixedSource) Float64() float64 {
	if f.next < len(f.values) {
		v := f.values[f.next]
		f.next++
		return v
	}
	return f.fallback.Float64()
}

func (f *fixedSource) IntN(n int) int {
	if n <= 0 {
		panic("random: IntN called with n <= 0")
	}
	return int(f.Float64() * float64(n))
}
