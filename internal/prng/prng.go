// Package prng provides the deterministic random stream every stage of town
// generation draws from. It is a Park-Miller linear congruential generator:
// identical seeds produce bit-identical draw sequences, and through them
// bit-identical towns. Do not swap this for math/rand - the exact sequence
// is the contract.
package prng

import (
	"math"
	"time"
)

const (
	multiplier = 48271
	modulus    = math.MaxInt32 // 2^31 - 1, prime
)

// Rand is a single deterministic stream. Not safe for concurrent use; each
// generation owns its own.
type Rand struct {
	seed  int64
	state int64
}

// New returns a stream reset to the given seed (see Reset for seed <= 0).
func New(seed int64) *Rand {
	r := &Rand{}
	r.Reset(seed)
	return r
}

// Reset rewinds the stream to the given seed. A seed <= 0 means "derive a
// fresh one" from the wall clock.
func (r *Rand) Reset(seed int64) {
	if seed <= 0 {
		seed = time.Now().UnixNano() % modulus
		if seed <= 0 {
			seed = 1
		}
	}
	seed = seed % modulus
	if seed <= 0 {
		seed += modulus - 1
	}
	r.seed = seed
	r.state = seed
}

// Seed returns the effective seed the stream was reset to.
func (r *Rand) Seed() int64 {
	return r.seed
}

// next advances the LCG and returns the raw state in [1, 2^31-2].
func (r *Rand) next() int64 {
	r.state = (r.state * multiplier) % modulus
	return r.state
}

// Float returns the next draw in [0, 1).
func (r *Rand) Float() float64 {
	return float64(r.next()) / float64(modulus)
}

// Int returns a uniform integer in [min, max).
func (r *Rand) Int(min, max int) int {
	return min + int(r.Float()*float64(max-min))
}

// Bool returns true with probability p.
func (r *Rand) Bool(p float64) bool {
	return r.Float() < p
}

// Norm returns the mean of three Float draws. It approximates a bell curve
// centred on 0.5; it is not a true gaussian and isn't meant to be.
func (r *Rand) Norm() float64 {
	return (r.Float() + r.Float() + r.Float()) / 3
}

// Fuzzy blends between the constant 0.5 (f = 0) and a full Norm draw (f = 1).
// Nb. it consumes three draws regardless of f, so branching on f upstream
// doesn't fork the stream.
func (r *Rand) Fuzzy(f float64) float64 {
	n := r.Norm()
	return 0.5*(1-f) + n*f
}
