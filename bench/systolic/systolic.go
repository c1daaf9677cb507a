// Package systolic verifies an N×N systolic matrix multiplier.
//
// Inputs alternate between a reset pulse and a pair of operand matrices held
// for a whole product. A reset transaction expects a zero result; a compute
// transaction expects A@B with every element truncated to the accumulator
// width.
package systolic

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/golden"
	"github.com/sarchlab/systolictb/rtl"
	"github.com/sarchlab/systolictb/signal"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
)

// Snapshot holds the multiplier signals at a clock edge.
type Snapshot struct {
	Reset tb.Field[bool]
	A     tb.Field[golden.Matrix]
	B     tb.Field[golden.Matrix]
	C     tb.Field[golden.Matrix]

	// Accumulators is the internal state of the MAC grid. It is traced but
	// not scored.
	Accumulators tb.Field[golden.Matrix]
}

// Input is one stimulus of the multiplier.
type Input struct {
	Reset bool
	A     golden.Matrix
	B     golden.Matrix
}

// Bench drives and scores a systolic multiplier.
type Bench struct {
	name        string
	params      config.Parameters
	resetPolicy tb.ResetPolicy
	operandGen  valgen.Gen
}

// Name returns the name of the bench.
func (b *Bench) Name() string {
	return b.name
}

// Generate returns the i-th input.
func (b *Bench) Generate(i int, rng *rand.Rand) (Input, error) {
	n := b.params.N
	in := Input{
		Reset: b.resetPolicy(i),
		A:     golden.FromFlat(valgen.Fill(b.operandGen, rng, n*n), n),
		B:     golden.FromFlat(valgen.Fill(b.operandGen, rng, n*n), n),
	}

	if err := b.params.CheckOperands(in.A.Flatten()...); err != nil {
		return in, err
	}

	return in, b.params.CheckOperands(in.B.Flatten()...)
}

// Drive writes the input on the multiplier ports. A matrix that does not
// match the parameters is a configuration error.
func (b *Bench) Drive(port signal.Port, in Input) error {
	n := b.params.N
	if in.A.N() != n || in.B.N() != n {
		return config.NewError("n", fmt.Sprintf(
			"operands are %d×%d and %d×%d, want %d×%d",
			in.A.N(), in.A.N(), in.B.N(), in.B.N(), n, n))
	}

	a, err := signal.PackArray(in.A.Flatten(), b.params.OpWidth)
	if err != nil {
		return config.WrapError("op_width", err)
	}

	x, err := signal.PackArray(in.B.Flatten(), b.params.OpWidth)
	if err != nil {
		return config.WrapError("op_width", err)
	}

	if err := port.Write("reset", signal.Bool(in.Reset)); err != nil {
		return err
	}

	if err := port.Write("a", a); err != nil {
		return err
	}

	return port.Write("b", x)
}

// Snapshot reads the multiplier signals.
func (b *Bench) Snapshot(port signal.Port) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)

	n := b.params.N

	if s.Reset, err = tb.ReadFlag(port, "reset"); err != nil {
		return s, err
	}

	if s.A, err = readMatrix(port, "a", n, b.params.OpWidth); err != nil {
		return s, err
	}

	if s.B, err = readMatrix(port, "b", n, b.params.OpWidth); err != nil {
		return s, err
	}

	if s.C, err = readMatrix(port, "c", n, b.params.AccWidth); err != nil {
		return s, err
	}

	s.Accumulators, err = readMatrix(port, rtl.AccumulatorSignal,
		n, b.params.AccWidth)
	if err != nil {
		return s, err
	}

	return s, nil
}

func readMatrix(
	port signal.Port,
	name string,
	n, width int,
) (tb.Field[golden.Matrix], error) {
	f, err := tb.ReadArray(port, name, n*n, width)
	if err != nil {
		return tb.Absent[golden.Matrix](), err
	}

	flat, ok := f.Get()
	if !ok {
		return tb.Absent[golden.Matrix](), nil
	}

	return tb.Known(golden.FromFlat(flat, n)), nil
}

// InputOp classifies an input.
func (b *Bench) InputOp(in Input) tb.Op {
	if in.Reset {
		return tb.OpReset
	}

	return tb.OpCompute
}

// SnapshotOp classifies a snapshot. An unknown reset counts as a reset.
func (b *Bench) SnapshotOp(s Snapshot) tb.Op {
	reset, ok := s.Reset.Get()
	if !ok || reset {
		return tb.OpReset
	}

	return tb.OpCompute
}

// Latency is one cycle for a reset and a whole product otherwise.
func (b *Bench) Latency() tb.LatencyPolicy {
	product := rtl.StatesPerN * b.params.N

	return tb.LatencyFunc(func(op tb.Op) int {
		if op == tb.OpReset {
			return 1
		}

		return product
	})
}

// Score checks the result matrix after the transaction.
func (b *Bench) Score(t tb.Transaction[Snapshot]) error {
	reset, ok := t.Before.Reset.Get()
	if !ok {
		return tb.Unresolved(b.name, t, "reset")
	}

	if reset {
		c, ok := t.After.C.Get()
		if !ok {
			return tb.Unresolved(b.name, t, "c")
		}

		if !c.IsZero() {
			return tb.Mismatch(b.name, t, tb.OpReset,
				golden.NewMatrix(b.params.N), c)
		}

		return nil
	}

	var missing []string
	if !t.Before.A.Valid() {
		missing = append(missing, "a")
	}

	if !t.Before.B.Valid() {
		missing = append(missing, "b")
	}

	if !t.After.C.Valid() {
		missing = append(missing, "c")
	}

	if len(missing) > 0 {
		return tb.Unresolved(b.name, t, missing...)
	}

	a, _ := t.Before.A.Get()
	x, _ := t.Before.B.Get()
	actual, _ := t.After.C.Get()

	expected, overflow := golden.MatMul(a, x, b.params.AccWidth)
	if overflow {
		slog.Warn("AccumulatorOverflow",
			"Bench", b.name, "Seq", t.Seq, "Cycle", t.Cycle,
			"A", a.String(), "B", x.String(), "Wrapped", expected.String())
	}

	if !actual.Equal(expected) {
		return tb.Mismatch(b.name, t, tb.OpCompute, expected, actual,
			tb.Operand{Name: "A", Value: a.String()},
			tb.Operand{Name: "B", Value: x.String()},
		)
	}

	return nil
}
