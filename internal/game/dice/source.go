// Package dice provides the randomness abstraction and roll helpers for the
// Herobook gamebook engine.
package dice

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
)

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand with rejection sampling
// over uniform 32-bit draws.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any
// 0 < n <= 1<<32; modulo bias is eliminated by rejecting draws above the
// largest multiple of n.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	bound := uint64(n)
	// Largest multiple of bound representable in 32 bits; draws at or above
	// it would bias the low residues and are redrawn.
	limit := (uint64(1) << 32) / bound * bound
	var buf [4]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("dice: crypto/rand failure: " + err.Error())
		}
		v := uint64(binary.BigEndian.Uint32(buf[:]))
		if v < limit {
			return int(v % bound)
		}
	}
}

// mathSource implements Source using math/rand/v2. It is the accepted
// degradation path when no secure source is available.
type mathSource struct{}

// NewMathSource returns a Source backed by math/rand/v2.
//
// Postcondition: Every value returned by Intn is in [0, n); values are
// uniform but not cryptographically secure.
func NewMathSource() Source {
	return &mathSource{}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (m *mathSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return mathrand.IntN(n)
}

// NewSource returns the strongest Source available: crypto/rand when it is
// readable, otherwise the math/rand fallback.
//
// Postcondition: The returned Source never fails at roll time.
func NewSource() Source {
	var buf [1]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return NewMathSource()
	}
	return NewCryptoSource()
}
