// Package golden computes the expected behavior of the circuits under test.
// Arithmetic is carried out over unbounded integers and then truncated to the
// accumulator width, the way the hardware registers truncate.
package golden

import (
	"fmt"
	"math/big"
	"strings"
)

func modulus(width int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(width))
}

func truncate(x *big.Int, width int) (uint64, bool) {
	m := modulus(width)
	overflow := x.Cmp(m) >= 0

	return new(big.Int).Mod(x, m).Uint64(), overflow
}

// Mac returns a*b + c truncated to accWidth bits. The flag reports whether
// the exact result did not fit.
func Mac(a, b, c uint64, accWidth int) (uint64, bool) {
	x := new(big.Int).Mul(
		new(big.Int).SetUint64(a),
		new(big.Int).SetUint64(b))
	x.Add(x, new(big.Int).SetUint64(c))

	return truncate(x, accWidth)
}

// Matrix is a square matrix of unsigned integers, indexed [row][column].
type Matrix [][]uint64

// NewMatrix returns an n×n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]uint64, n)
	}

	return m
}

// FromFlat builds an n×n matrix from row-major values.
func FromFlat(flat []uint64, n int) Matrix {
	if len(flat) != n*n {
		panic(fmt.Sprintf("%d values cannot fill a %dx%d matrix", len(flat), n, n))
	}

	m := NewMatrix(n)
	for i := 0; i < n; i++ {
		copy(m[i], flat[i*n:(i+1)*n])
	}

	return m
}

// N returns the dimension of the matrix.
func (m Matrix) N() int {
	return len(m)
}

// Flatten returns the values in row-major order.
func (m Matrix) Flatten() []uint64 {
	flat := make([]uint64, 0, len(m)*len(m))
	for _, row := range m {
		flat = append(flat, row...)
	}

	return flat
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	return FromFlat(m.Flatten(), len(m))
}

// Equal compares element-wise.
func (m Matrix) Equal(o Matrix) bool {
	if len(m) != len(o) {
		return false
	}

	for i := range m {
		if len(m[i]) != len(o[i]) {
			return false
		}

		for j := range m[i] {
			if m[i][j] != o[i][j] {
				return false
			}
		}
	}

	return true
}

// IsZero reports whether every element is zero.
func (m Matrix) IsZero() bool {
	for _, row := range m {
		for _, x := range row {
			if x != 0 {
				return false
			}
		}
	}

	return true
}

// String prints the matrix as [[a b] [c d]].
func (m Matrix) String() string {
	rows := make([]string, len(m))
	for i, row := range m {
		rows[i] = fmt.Sprint(row)
	}

	return "[" + strings.Join(rows, " ") + "]"
}

// MatMul returns a @ b with every element truncated to accWidth bits. The
// flag reports whether any element did not fit.
func MatMul(a, b Matrix, accWidth int) (Matrix, bool) {
	n := len(a)
	if len(b) != n {
		panic("matrix dimensions differ")
	}

	c := NewMatrix(n)
	overflow := false

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := new(big.Int)
			for k := 0; k < n; k++ {
				p := new(big.Int).Mul(
					new(big.Int).SetUint64(a[i][k]),
					new(big.Int).SetUint64(b[k][j]))
				sum.Add(sum, p)
			}

			var of bool
			c[i][j], of = truncate(sum, accWidth)
			overflow = overflow || of
		}
	}

	return c, overflow
}

// ShiftRowsIn shifts row k of m towards column 0 for every enabled lane k and
// appends in[k] at the last column.
func ShiftRowsIn(m Matrix, in []uint64, ena []bool) Matrix {
	out := m.Clone()
	n := len(m)

	for k := 0; k < n; k++ {
		if !ena[k] {
			continue
		}

		copy(out[k][:n-1], m[k][1:])
		out[k][n-1] = in[k]
	}

	return out
}

// ShiftColumnsIn shifts column k of m towards row 0 for every enabled lane k
// and appends in[k] at the last row.
func ShiftColumnsIn(m Matrix, in []uint64, ena []bool) Matrix {
	out := m.Clone()
	n := len(m)

	for k := 0; k < n; k++ {
		if !ena[k] {
			continue
		}

		for r := 0; r < n-1; r++ {
			out[r][k] = m[r+1][k]
		}
		out[n-1][k] = in[k]
	}

	return out
}
