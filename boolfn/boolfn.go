package boolfn

import (
	"fmt"
	"math/rand"
)

// MaxBits bounds the input width so the full input space stays enumerable.
const MaxBits = 20

// Func is a boolean function over fixed-width bit vectors.
type Func interface {
	// Eval maps a bit vector (values 0/1, length Bits) to a single bit.
	Eval(bits []int) int
	Bits() int
	Name() string
}

// New builds a named boolean function of the given width.
// Supported names: parity, majority, and, or, first, random.
// The seed is only used by "random" (seeded truth table).
func New(name string, bits int, seed int64) (Func, error) {
	if bits < 1 || bits > MaxBits {
		return nil, fmt.Errorf("bits must be in [1, %d], got %d", MaxBits, bits)
	}
	switch name {
	case "parity":
		return parity{bits}, nil
	case "majority":
		return majority{bits}, nil
	case "and":
		return conj{bits}, nil
	case "or":
		return disj{bits}, nil
	case "first":
		return first{bits}, nil
	case "random":
		return newRandomTable(bits, seed), nil
	default:
		return nil, fmt.Errorf("unknown boolean function: %s", name)
	}
}

// parity outputs 1 iff the number of 1-bits is odd (XOR at width 2).
type parity struct{ bits int }

func (p parity) Eval(bits []int) int {
	ones := 0
	for _, b := range bits {
		ones += b
	}
	return ones % 2
}

func (p parity) Bits() int    { return p.bits }
func (p parity) Name() string { return "parity" }

// majority outputs 1 iff more than half of the bits are set.
type majority struct{ bits int }

func (m majority) Eval(bits []int) int {
	ones := 0
	for _, b := range bits {
		ones += b
	}
	if 2*ones > len(bits) {
		return 1
	}
	return 0
}

func (m majority) Bits() int    { return m.bits }
func (m majority) Name() string { return "majority" }

type conj struct{ bits int }

func (c conj) Eval(bits []int) int {
	for _, b := range bits {
		if b == 0 {
			return 0
		}
	}
	return 1
}

func (c conj) Bits() int    { return c.bits }
func (c conj) Name() string { return "and" }

type disj struct{ bits int }

func (d disj) Eval(bits []int) int {
	for _, b := range bits {
		if b == 1 {
			return 1
		}
	}
	return 0
}

func (d disj) Bits() int    { return d.bits }
func (d disj) Name() string { return "or" }

// first projects onto the first bit. Trivially learnable sanity baseline.
type first struct{ bits int }

func (f first) Eval(bits []int) int { return bits[0] }
func (f first) Bits() int           { return f.bits }
func (f first) Name() string        { return "first" }

// randomTable is a uniformly random boolean function, materialized as a
// truth table. The same seed always yields the same table.
type randomTable struct {
	bits  int
	table []int
}

func newRandomTable(bits int, seed int64) *randomTable {
	rng := rand.New(rand.NewSource(seed))
	table := make([]int, 1<<bits)
	for i := range table {
		table[i] = rng.Intn(2)
	}
	return &randomTable{bits: bits, table: table}
}

func (r *randomTable) Eval(bits []int) int {
	return r.table[Index(bits)]
}

func (r *randomTable) Bits() int    { return r.bits }
func (r *randomTable) Name() string { return "random" }

// Index packs a bit vector into its truth-table index: bit j is bit j of
// the index, so IndexBits(Index(b), len(b)) round-trips.
func Index(bits []int) int {
	idx := 0
	for j, b := range bits {
		if b != 0 {
			idx |= 1 << j
		}
	}
	return idx
}

// IndexBits unpacks a truth-table index into a bit vector of the given width.
func IndexBits(idx, width int) []int {
	bits := make([]int, width)
	for j := 0; j < width; j++ {
		bits[j] = (idx >> j) & 1
	}
	return bits
}
