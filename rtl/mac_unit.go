// Package rtl holds behavioral models of the arithmetic circuits under test.
// The models are cycle accurate at their ports and publish unknown outputs
// until they are reset.
package rtl

// MacUnit is one multiply-accumulate cell. The accumulator wraps at the
// accumulator width.
type MacUnit struct {
	accMask uint64
	acc     uint64
}

// NewMacUnit creates a unit with a cleared accumulator.
func NewMacUnit(accWidth int) MacUnit {
	return MacUnit{accMask: widthMask(accWidth)}
}

// Step adds a*b to the accumulator, or loads a*b when clear is set.
func (u *MacUnit) Step(a, b uint64, clear bool) {
	base := u.acc
	if clear {
		base = 0
	}

	u.acc = (a*b + base) & u.accMask
}

// Reset clears the accumulator.
func (u *MacUnit) Reset() {
	u.acc = 0
}

// Acc returns the accumulator.
func (u *MacUnit) Acc() uint64 {
	return u.acc
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << uint(width)) - 1
}

// A Fault corrupts an output value before it is published. Faults let tests
// check that the harness catches a wrong circuit.
type Fault func(cycle uint64, value uint64) uint64
