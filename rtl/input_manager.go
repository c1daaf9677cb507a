package rtl

import (
	"fmt"

	"github.com/sarchlab/systolictb/signal"
)

// InputManager models the GEMM input manager that collects streaming
// operands for the systolic array. Every cycle it may accept a new A column
// and a new B row, with one enable bit per lane.
//
// For an enabled lane k, row k of A shifts towards column 0 and the new
// element enters at column N-1. Likewise column k of B shifts towards row 0
// and the new element enters at row N-1. Disabled lanes hold.
type InputManager struct {
	name    string
	n       int
	opWidth int
	fault   Fault

	a, b   []uint64
	known  bool
	cycles uint64
}

// Name returns the name of the circuit.
func (m *InputManager) Name() string {
	return m.name
}

// Decls lists the ports of the input manager.
func (m *InputManager) Decls() []signal.Decl {
	n := m.n

	return []signal.Decl{
		{Name: "reset", Width: 1, Dir: signal.Input},
		{Name: "new_a_column", Width: n * m.opWidth, Dir: signal.Input},
		{Name: "new_a_column_ena", Width: n, Dir: signal.Input},
		{Name: "new_b_row", Width: n * m.opWidth, Dir: signal.Input},
		{Name: "new_b_row_ena", Width: n, Dir: signal.Input},
		{Name: "a", Width: n * n * m.opWidth, Dir: signal.Output},
		{Name: "b", Width: n * n * m.opWidth, Dir: signal.Output},
	}
}

// Tick shifts the enabled lanes.
func (m *InputManager) Tick(b signal.Bank) {
	m.cycles++

	reset, ok := b.Get("reset").Bool()
	if !ok {
		m.becomeUnknown(b)
		return
	}

	if reset {
		for i := range m.a {
			m.a[i] = 0
			m.b[i] = 0
		}

		m.known = true
		m.publish(b)

		return
	}

	n := m.n
	col, ok1 := signal.UnpackArray(b.Get("new_a_column"), n, m.opWidth)
	colEna, ok2 := signal.UnpackArray(b.Get("new_a_column_ena"), n, 1)
	row, ok3 := signal.UnpackArray(b.Get("new_b_row"), n, m.opWidth)
	rowEna, ok4 := signal.UnpackArray(b.Get("new_b_row_ena"), n, 1)
	if !ok1 || !ok2 || !ok3 || !ok4 || !m.known {
		m.becomeUnknown(b)
		return
	}

	for k := 0; k < n; k++ {
		if colEna[k] == 1 {
			copy(m.a[k*n:(k+1)*n-1], m.a[k*n+1:(k+1)*n])
			m.a[(k+1)*n-1] = col[k]
		}

		if rowEna[k] == 1 {
			for r := 0; r < n-1; r++ {
				m.b[r*n+k] = m.b[(r+1)*n+k]
			}
			m.b[(n-1)*n+k] = row[k]
		}
	}

	m.publish(b)
}

func (m *InputManager) publish(b signal.Bank) {
	a := append([]uint64(nil), m.a...)
	if m.fault != nil {
		for i := range a {
			a[i] = m.fault(m.cycles, a[i]) & widthMask(m.opWidth)
		}
	}

	va, err := signal.PackArray(a, m.opWidth)
	if err != nil {
		panic(err)
	}

	vb, err := signal.PackArray(m.b, m.opWidth)
	if err != nil {
		panic(err)
	}

	b.Set("a", va)
	b.Set("b", vb)
}

func (m *InputManager) becomeUnknown(b signal.Bank) {
	m.known = false
	b.Set("a", signal.Unknown(m.n*m.n*m.opWidth))
	b.Set("b", signal.Unknown(m.n*m.n*m.opWidth))
}

// InputManagerBuilder can create input managers.
type InputManagerBuilder struct {
	n       int
	opWidth int
	fault   Fault
}

// MakeInputManagerBuilder returns a builder for 2 lanes of 8-bit operands.
func MakeInputManagerBuilder() InputManagerBuilder {
	return InputManagerBuilder{n: 2, opWidth: 8}
}

// WithN sets the number of lanes.
func (b InputManagerBuilder) WithN(n int) InputManagerBuilder {
	b.n = n
	return b
}

// WithOpWidth sets the operand width.
func (b InputManagerBuilder) WithOpWidth(w int) InputManagerBuilder {
	b.opWidth = w
	return b
}

// WithFault corrupts the published A buffer.
func (b InputManagerBuilder) WithFault(f Fault) InputManagerBuilder {
	b.fault = f
	return b
}

// Build creates an input manager.
func (b InputManagerBuilder) Build(name string) *InputManager {
	if b.n < 1 {
		panic(fmt.Sprintf("invalid lane count %d", b.n))
	}

	if b.opWidth < 1 || b.opWidth > 32 {
		panic("operand width must be within [1, 32]")
	}

	return &InputManager{
		name:    name,
		n:       b.n,
		opWidth: b.opWidth,
		fault:   b.fault,
		a:       make([]uint64, b.n*b.n),
		b:       make([]uint64, b.n*b.n),
	}
}
