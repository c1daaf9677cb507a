package rtl

import (
	"fmt"

	"github.com/sarchlab/systolictb/signal"
)

// StatesPerN is the number of controller states per array dimension. One
// matrix product takes StatesPerN*N cycles.
const StatesPerN = 3

// AccumulatorSignal exposes the accumulators of every MAC unit, row-major.
const AccumulatorSignal = "mac_manager.flat_mac_accumulators"

// SystolicMultiplier models an output-stationary N×N systolic array.
//
// Operand A enters from the west, one row per array row, and operand B from
// the north, one column per array column. Row i and column j are delayed by i
// and j cycles so that PE(i, j) sees a[i][k] and b[k][j] in the same cycle.
// Every PE forwards its operands east and south through pipeline registers.
// The operands are sampled every cycle; a new product starts with cleared
// accumulators every StatesPerN*N cycles and is published on c when it ends.
type SystolicMultiplier struct {
	name     string
	n        int
	opWidth  int
	accWidth int
	fault    Fault

	units []MacUnit
	aPipe []uint64
	bPipe []uint64
	phase int
	known bool

	cycles uint64
}

// Name returns the name of the circuit.
func (m *SystolicMultiplier) Name() string {
	return m.name
}

// Decls lists the ports of the multiplier.
func (m *SystolicMultiplier) Decls() []signal.Decl {
	nn := m.n * m.n

	return []signal.Decl{
		{Name: "reset", Width: 1, Dir: signal.Input},
		{Name: "a", Width: nn * m.opWidth, Dir: signal.Input},
		{Name: "b", Width: nn * m.opWidth, Dir: signal.Input},
		{Name: "c", Width: nn * m.accWidth, Dir: signal.Output},
		{Name: AccumulatorSignal, Width: nn * m.accWidth, Dir: signal.Internal},
	}
}

// Tick advances the array by one state.
func (m *SystolicMultiplier) Tick(b signal.Bank) {
	m.cycles++

	reset, ok := b.Get("reset").Bool()
	if !ok {
		m.becomeUnknown(b)
		return
	}

	if reset {
		m.clear()
		m.known = true
		m.publishAccumulators(b)
		m.publishOutput(b)

		return
	}

	nn := m.n * m.n
	a, okA := signal.UnpackArray(b.Get("a"), nn, m.opWidth)
	bb, okB := signal.UnpackArray(b.Get("b"), nn, m.opWidth)
	if !okA || !okB || !m.known {
		m.becomeUnknown(b)
		return
	}

	m.step(a, bb)
	m.publishAccumulators(b)

	m.phase++
	if m.phase == StatesPerN*m.n {
		m.phase = 0
		m.publishOutput(b)
	}
}

func (m *SystolicMultiplier) step(a, b []uint64) {
	n := m.n
	start := m.phase == 0
	nextA := make([]uint64, n*n)
	nextB := make([]uint64, n*n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			idx := i*n + j

			var aIn, bIn uint64
			switch {
			case j == 0:
				if k := m.phase - i; k >= 0 && k < n {
					aIn = a[i*n+k]
				}
			case !start:
				aIn = m.aPipe[idx-1]
			}

			switch {
			case i == 0:
				if k := m.phase - j; k >= 0 && k < n {
					bIn = b[k*n+j]
				}
			case !start:
				bIn = m.bPipe[idx-n]
			}

			m.units[idx].Step(aIn, bIn, start)
			nextA[idx] = aIn
			nextB[idx] = bIn
		}
	}

	m.aPipe = nextA
	m.bPipe = nextB
}

func (m *SystolicMultiplier) clear() {
	for i := range m.units {
		m.units[i].Reset()
		m.aPipe[i] = 0
		m.bPipe[i] = 0
	}

	m.phase = 0
}

func (m *SystolicMultiplier) accumulators() []uint64 {
	acc := make([]uint64, len(m.units))
	for i := range m.units {
		acc[i] = m.units[i].Acc()
	}

	return acc
}

func (m *SystolicMultiplier) publishAccumulators(b signal.Bank) {
	v, err := signal.PackArray(m.accumulators(), m.accWidth)
	if err != nil {
		panic(err)
	}

	b.Set(AccumulatorSignal, v)
}

func (m *SystolicMultiplier) publishOutput(b signal.Bank) {
	c := m.accumulators()
	if m.fault != nil {
		for i := range c {
			c[i] = m.fault(m.cycles, c[i]) & widthMask(m.accWidth)
		}
	}

	v, err := signal.PackArray(c, m.accWidth)
	if err != nil {
		panic(err)
	}

	b.Set("c", v)
}

func (m *SystolicMultiplier) becomeUnknown(b signal.Bank) {
	nn := m.n * m.n
	m.known = false
	b.Set("c", signal.Unknown(nn*m.accWidth))
	b.Set(AccumulatorSignal, signal.Unknown(nn*m.accWidth))
}

// SystolicBuilder can create systolic multipliers.
type SystolicBuilder struct {
	n        int
	opWidth  int
	accWidth int
	fault    Fault
}

// MakeSystolicBuilder returns a builder for a 2×2 array with 8-bit operands
// and 32-bit accumulators.
func MakeSystolicBuilder() SystolicBuilder {
	return SystolicBuilder{n: 2, opWidth: 8, accWidth: 32}
}

// WithN sets the array dimension.
func (b SystolicBuilder) WithN(n int) SystolicBuilder {
	b.n = n
	return b
}

// WithOpWidth sets the operand width.
func (b SystolicBuilder) WithOpWidth(w int) SystolicBuilder {
	b.opWidth = w
	return b
}

// WithAccWidth sets the accumulator width.
func (b SystolicBuilder) WithAccWidth(w int) SystolicBuilder {
	b.accWidth = w
	return b
}

// WithFault corrupts every published output element.
func (b SystolicBuilder) WithFault(f Fault) SystolicBuilder {
	b.fault = f
	return b
}

// Build creates a systolic multiplier.
func (b SystolicBuilder) Build(name string) *SystolicMultiplier {
	if b.n < 1 {
		panic(fmt.Sprintf("invalid array dimension %d", b.n))
	}

	mustWidths(b.opWidth, b.accWidth)

	nn := b.n * b.n
	m := &SystolicMultiplier{
		name:     name,
		n:        b.n,
		opWidth:  b.opWidth,
		accWidth: b.accWidth,
		fault:    b.fault,
		units:    make([]MacUnit, nn),
		aPipe:    make([]uint64, nn),
		bPipe:    make([]uint64, nn),
	}

	for i := range m.units {
		m.units[i] = NewMacUnit(b.accWidth)
	}

	return m
}
