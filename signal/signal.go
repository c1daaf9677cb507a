// Package signal defines the values and the access port shared by the
// harness, the virtual simulator and the circuit models.
package signal

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Direction tells who drives a signal.
type Direction int

const (
	Input Direction = iota
	Output
	Internal
)

// Name returns the name of the direction.
func (d Direction) Name() string {
	switch d {
	case Input:
		return "Input"
	case Output:
		return "Output"
	case Internal:
		return "Internal"
	default:
		panic("invalid direction")
	}
}

// Decl declares one signal of a circuit.
type Decl struct {
	Name  string
	Width int
	Dir   Direction
}

var (
	// ErrNoSuchSignal is returned when a signal name is not declared.
	ErrNoSuchSignal = errors.New("no such signal")

	// ErrWidthMismatch is returned when a written vector does not have the
	// declared width of the signal.
	ErrWidthMismatch = errors.New("width mismatch")

	// ErrValueTooWide is returned when an integer does not fit the requested
	// number of bits.
	ErrValueTooWide = errors.New("value does not fit width")

	// ErrNotWritable is returned when the testbench writes a signal that the
	// circuit drives.
	ErrNotWritable = errors.New("signal is not writable")
)

// Vector is an immutable fixed-width bit vector. Every bit is either resolved
// (0 or 1) or unknown (X or Z, the two are not told apart).
type Vector struct {
	width int
	val   *big.Int
	unk   *big.Int
}

func mask(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

func mustWidth(width int) {
	if width <= 0 {
		panic("vector width must be positive")
	}
}

// Unknown returns a vector with every bit unknown.
func Unknown(width int) Vector {
	mustWidth(width)

	return Vector{width: width, val: new(big.Int), unk: mask(width)}
}

// Zero returns a resolved all-zero vector.
func Zero(width int) Vector {
	mustWidth(width)

	return Vector{width: width, val: new(big.Int), unk: new(big.Int)}
}

// Bool returns a resolved 1-bit vector.
func Bool(b bool) Vector {
	v := Zero(1)
	if b {
		v.val.SetInt64(1)
	}

	return v
}

// FromUint64 returns a resolved vector holding x.
func FromUint64(x uint64, width int) (Vector, error) {
	return FromBig(new(big.Int).SetUint64(x), width)
}

// MustUint64 is like FromUint64 but panics if x does not fit.
func MustUint64(x uint64, width int) Vector {
	v, err := FromUint64(x, width)
	if err != nil {
		panic(err)
	}

	return v
}

// FromBig returns a resolved vector holding x. Negative values are rejected.
func FromBig(x *big.Int, width int) (Vector, error) {
	mustWidth(width)

	if x.Sign() < 0 || x.BitLen() > width {
		return Vector{}, errors.Wrapf(ErrValueTooWide,
			"%s needs %d bits, limit is %d", x.String(), x.BitLen(), width)
	}

	return Vector{width: width, val: new(big.Int).Set(x), unk: new(big.Int)}, nil
}

// Parse reads a binary literal, MSB first. The characters x, X, z and Z mark
// unknown bits; underscores are ignored.
func Parse(s string) (Vector, error) {
	s = strings.ReplaceAll(s, "_", "")
	if len(s) == 0 {
		return Vector{}, errors.New("empty binary literal")
	}

	v := Zero(len(s))
	for i, r := range s {
		bit := len(s) - 1 - i
		switch r {
		case '0':
		case '1':
			v.val.SetBit(v.val, bit, 1)
		case 'x', 'X', 'z', 'Z':
			v.unk.SetBit(v.unk, bit, 1)
		default:
			return Vector{}, errors.Errorf("invalid character %q in %q", r, s)
		}
	}

	return v, nil
}

// Width returns the number of bits.
func (v Vector) Width() int {
	return v.width
}

// IsResolvable reports whether no bit is unknown.
func (v Vector) IsResolvable() bool {
	return v.width > 0 && v.unk.Sign() == 0
}

// Big returns the value of a fully resolved vector.
func (v Vector) Big() (*big.Int, bool) {
	if !v.IsResolvable() {
		return nil, false
	}

	return new(big.Int).Set(v.val), true
}

// Uint64 returns the value of a fully resolved vector that fits 64 bits.
func (v Vector) Uint64() (uint64, bool) {
	if !v.IsResolvable() || v.val.BitLen() > 64 {
		return 0, false
	}

	return v.val.Uint64(), true
}

// Bool returns the value of a resolved 1-bit vector. Wider vectors are true
// when any bit is set.
func (v Vector) Bool() (value, ok bool) {
	if !v.IsResolvable() {
		return false, false
	}

	return v.val.Sign() != 0, true
}

// WithUnknownBit returns a copy of v with bit i unknown.
func (v Vector) WithUnknownBit(i int) Vector {
	if i < 0 || i >= v.width {
		panic("bit index out of range")
	}

	out := v.clone()
	out.val.SetBit(out.val, i, 0)
	out.unk.SetBit(out.unk, i, 1)

	return out
}

// Slice returns bits [lo, lo+width) of v as a new vector.
func (v Vector) Slice(lo, width int) Vector {
	if lo < 0 || width <= 0 || lo+width > v.width {
		panic("slice out of range")
	}

	m := mask(width)
	val := new(big.Int).Rsh(v.val, uint(lo))
	unk := new(big.Int).Rsh(v.unk, uint(lo))

	return Vector{width: width, val: val.And(val, m), unk: unk.And(unk, m)}
}

// Equal reports whether both vectors have the same width and the same bits,
// unknown bits included.
func (v Vector) Equal(o Vector) bool {
	if v.width == 0 || o.width == 0 {
		return v.width == o.width
	}

	return v.width == o.width &&
		v.val.Cmp(o.val) == 0 &&
		v.unk.Cmp(o.unk) == 0
}

// String prints the vector MSB first, unknown bits as x.
func (v Vector) String() string {
	if v.width == 0 {
		return "<invalid>"
	}

	var b strings.Builder
	for i := v.width - 1; i >= 0; i-- {
		switch {
		case v.unk.Bit(i) == 1:
			b.WriteByte('x')
		case v.val.Bit(i) == 1:
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}

	return b.String()
}

func (v Vector) clone() Vector {
	return Vector{
		width: v.width,
		val:   new(big.Int).Set(v.val),
		unk:   new(big.Int).Set(v.unk),
	}
}
