// Package synth derives deterministic pseudo-random values from a resource key.
// The same key always yields the same sequence, so repeated requests for one
// block, transaction or NFX are idempotent.
package synth

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand/v2"

	"lukechampine.com/blake3"
)

// Rand is a seeded generator bound to one key.
type Rand struct {
	key string
	r   *rand.Rand
}

// New seeds a generator from the blake3 digest of key.
func New(key string) *Rand {
	sum := blake3.Sum256([]byte(key))
	seed1 := binary.LittleEndian.Uint64(sum[0:8])
	seed2 := binary.LittleEndian.Uint64(sum[8:16])
	return &Rand{key: key, r: rand.New(rand.NewPCG(seed1, seed2))}
}

// Newf is New with a formatted key.
func Newf(format string, args ...any) *Rand {
	return New(fmt.Sprintf(format, args...))
}

// Key returns the key the generator was seeded with.
func (g *Rand) Key() string { return g.key }

// Intn returns a value in [0, n). n <= 0 yields 0.
func (g *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.IntN(n)
}

// Range returns a value in [lo, hi], both inclusive.
func (g *Rand) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.r.IntN(hi-lo+1)
}

// Float64 returns a value in [0, 1).
func (g *Rand) Float64() float64 { return g.r.Float64() }

// Chance reports true with probability p.
func (g *Rand) Chance(p float64) bool { return g.r.Float64() < p }

// Hex returns "0x" followed by n random bytes in hex.
func (g *Rand) Hex(n int) string {
	buf := make([]byte, n+8)
	for i := 0; i < n; i += 8 {
		binary.LittleEndian.PutUint64(buf[i:], g.r.Uint64())
	}
	return "0x" + hex.EncodeToString(buf[:n])
}

// Address returns a 20-byte hex address.
func (g *Rand) Address() string { return g.Hex(20) }

// Hash returns a 32-byte hex hash.
func (g *Rand) Hash() string { return g.Hex(32) }

// Pick returns one element of options.
func Pick[T any](g *Rand, options []T) T {
	return options[g.Intn(len(options))]
}

// Digest returns the hex blake3 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
