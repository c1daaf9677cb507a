package rtl

import "github.com/sarchlab/systolictb/signal"

// Mac models a single multiply-accumulate register.
//
//	Inputs: reset, ena, a[OpWidth], b[OpWidth]
//	Outputs: c[AccWidth]
//	Function: c(t+1) = 0            if reset(t)
//	                   c(t)         if !ena(t)
//	                   a*b + c(t)   otherwise
type Mac struct {
	name     string
	opWidth  int
	accWidth int
	fault    Fault

	unit   MacUnit
	known  bool
	cycles uint64
}

// Name returns the name of the circuit.
func (m *Mac) Name() string {
	return m.name
}

// Decls lists the ports of the MAC.
func (m *Mac) Decls() []signal.Decl {
	return []signal.Decl{
		{Name: "reset", Width: 1, Dir: signal.Input},
		{Name: "ena", Width: 1, Dir: signal.Input},
		{Name: "a", Width: m.opWidth, Dir: signal.Input},
		{Name: "b", Width: m.opWidth, Dir: signal.Input},
		{Name: "c", Width: m.accWidth, Dir: signal.Output},
	}
}

// Tick updates the accumulator on a rising edge.
func (m *Mac) Tick(b signal.Bank) {
	m.cycles++

	reset, ok := b.Get("reset").Bool()
	if !ok {
		m.becomeUnknown(b)
		return
	}

	if reset {
		m.unit.Reset()
		m.known = true
		m.publish(b)

		return
	}

	ena, ok := b.Get("ena").Bool()
	if !ok {
		m.becomeUnknown(b)
		return
	}

	if !ena {
		return
	}

	x, okA := b.Get("a").Uint64()
	y, okB := b.Get("b").Uint64()
	if !okA || !okB || !m.known {
		m.becomeUnknown(b)
		return
	}

	m.unit.Step(x, y, false)
	m.publish(b)
}

func (m *Mac) becomeUnknown(b signal.Bank) {
	m.known = false
	b.Set("c", signal.Unknown(m.accWidth))
}

func (m *Mac) publish(b signal.Bank) {
	c := m.unit.Acc()
	if m.fault != nil {
		c = m.fault(m.cycles, c) & widthMask(m.accWidth)
	}

	b.Set("c", signal.MustUint64(c, m.accWidth))
}

// MacBuilder can create MAC models.
type MacBuilder struct {
	opWidth  int
	accWidth int
	fault    Fault
}

// MakeMacBuilder returns a builder with 8-bit operands and a 32-bit
// accumulator.
func MakeMacBuilder() MacBuilder {
	return MacBuilder{opWidth: 8, accWidth: 32}
}

// WithOpWidth sets the operand width.
func (b MacBuilder) WithOpWidth(w int) MacBuilder {
	b.opWidth = w
	return b
}

// WithAccWidth sets the accumulator width.
func (b MacBuilder) WithAccWidth(w int) MacBuilder {
	b.accWidth = w
	return b
}

// WithFault corrupts the published accumulator.
func (b MacBuilder) WithFault(f Fault) MacBuilder {
	b.fault = f
	return b
}

// Build creates a MAC.
func (b MacBuilder) Build(name string) *Mac {
	mustWidths(b.opWidth, b.accWidth)

	return &Mac{
		name:     name,
		opWidth:  b.opWidth,
		accWidth: b.accWidth,
		fault:    b.fault,
		unit:     NewMacUnit(b.accWidth),
	}
}

func mustWidths(opWidth, accWidth int) {
	if opWidth < 1 || opWidth > 32 {
		panic("operand width must be within [1, 32]")
	}

	if accWidth < 1 || accWidth > 64 {
		panic("accumulator width must be within [1, 64]")
	}
}
