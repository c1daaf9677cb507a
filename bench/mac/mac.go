// Package mac verifies a multiply-accumulate unit.
//
// Every transaction spans one cycle. Scoring follows the priority of the
// hardware: reset clears the accumulator, a deasserted enable holds it, and
// otherwise c becomes a*b + c truncated to the accumulator width.
package mac

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/golden"
	"github.com/sarchlab/systolictb/signal"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
)

// Snapshot holds the MAC signals at a clock edge.
type Snapshot struct {
	Reset tb.Field[bool]
	Ena   tb.Field[bool]
	A     tb.Field[uint64]
	B     tb.Field[uint64]
	C     tb.Field[uint64]
}

// Input is one stimulus of the MAC.
type Input struct {
	Reset bool
	Ena   bool
	A     uint64
	B     uint64
}

// Bench drives and scores a MAC.
type Bench struct {
	name        string
	params      config.Parameters
	resetPolicy tb.ResetPolicy
	operandGen  valgen.Gen
	enableGen   valgen.Gen
}

// Name returns the name of the bench.
func (b *Bench) Name() string {
	return b.name
}

// Generate returns the i-th input.
func (b *Bench) Generate(i int, rng *rand.Rand) (Input, error) {
	in := Input{
		Reset: b.resetPolicy(i),
		Ena:   b.enableGen(rng)&1 == 1,
		A:     b.operandGen(rng),
		B:     b.operandGen(rng),
	}

	return in, b.params.CheckOperands(in.A, in.B)
}

// Drive writes the input on the MAC ports.
func (b *Bench) Drive(port signal.Port, in Input) error {
	a, err := signal.FromUint64(in.A, b.params.OpWidth)
	if err != nil {
		return config.WrapError("op_width", err)
	}

	x, err := signal.FromUint64(in.B, b.params.OpWidth)
	if err != nil {
		return config.WrapError("op_width", err)
	}

	writes := []struct {
		name string
		v    signal.Vector
	}{
		{"reset", signal.Bool(in.Reset)},
		{"ena", signal.Bool(in.Ena)},
		{"a", a},
		{"b", x},
	}

	for _, w := range writes {
		if err := port.Write(w.name, w.v); err != nil {
			return err
		}
	}

	return nil
}

// Snapshot reads the MAC signals.
func (b *Bench) Snapshot(port signal.Port) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)

	if s.Reset, err = tb.ReadFlag(port, "reset"); err != nil {
		return s, err
	}

	if s.Ena, err = tb.ReadFlag(port, "ena"); err != nil {
		return s, err
	}

	if s.A, err = tb.ReadScalar(port, "a"); err != nil {
		return s, err
	}

	if s.B, err = tb.ReadScalar(port, "b"); err != nil {
		return s, err
	}

	if s.C, err = tb.ReadScalar(port, "c"); err != nil {
		return s, err
	}

	return s, nil
}

// InputOp classifies an input.
func (b *Bench) InputOp(in Input) tb.Op {
	switch {
	case in.Reset:
		return tb.OpReset
	case !in.Ena:
		return tb.OpHold
	default:
		return tb.OpCompute
	}
}

// SnapshotOp classifies a snapshot. A snapshot with an unknown control
// signal counts as a reset.
func (b *Bench) SnapshotOp(s Snapshot) tb.Op {
	reset, ok := s.Reset.Get()
	if !ok || reset {
		return tb.OpReset
	}

	ena, ok := s.Ena.Get()
	if !ok || ena {
		return tb.OpCompute
	}

	return tb.OpHold
}

// Latency is one cycle for every operation.
func (b *Bench) Latency() tb.LatencyPolicy {
	return tb.FixedLatency(1)
}

// Score checks the accumulator after the transaction.
func (b *Bench) Score(t tb.Transaction[Snapshot]) error {
	before := t.Before

	reset, ok := before.Reset.Get()
	if !ok {
		return tb.Unresolved(b.name, t, "reset")
	}

	if reset {
		return b.scoreReset(t)
	}

	ena, ok := before.Ena.Get()
	if !ok {
		return tb.Unresolved(b.name, t, "ena")
	}

	if !ena {
		return b.scoreHold(t)
	}

	return b.scoreCompute(t)
}

func (b *Bench) scoreReset(t tb.Transaction[Snapshot]) error {
	c, ok := t.After.C.Get()
	if !ok {
		return tb.Unresolved(b.name, t, "c")
	}

	if c != 0 {
		return tb.Mismatch(b.name, t, tb.OpReset, uint64(0), c)
	}

	return nil
}

func (b *Bench) scoreHold(t tb.Transaction[Snapshot]) error {
	was, okBefore := t.Before.C.Get()
	now, okAfter := t.After.C.Get()

	if !okBefore || !okAfter {
		return tb.Unresolved(b.name, t, "c")
	}

	if now != was {
		return tb.Mismatch(b.name, t, tb.OpHold, was, now,
			tb.Operand{Name: "c", Value: fmt.Sprint(was)})
	}

	return nil
}

func (b *Bench) scoreCompute(t tb.Transaction[Snapshot]) error {
	var missing []string
	for _, f := range []struct {
		name  string
		field tb.Field[uint64]
	}{
		{"a", t.Before.A},
		{"b", t.Before.B},
		{"c", t.Before.C},
		{"c (after)", t.After.C},
	} {
		if !f.field.Valid() {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return tb.Unresolved(b.name, t, missing...)
	}

	x, _ := t.Before.A.Get()
	y, _ := t.Before.B.Get()
	c, _ := t.Before.C.Get()
	actual, _ := t.After.C.Get()

	expected, overflow := golden.Mac(x, y, c, b.params.AccWidth)
	if overflow {
		slog.Warn("AccumulatorOverflow",
			"Bench", b.name, "Seq", t.Seq, "Cycle", t.Cycle,
			"A", x, "B", y, "C", c, "Wrapped", expected)
	}

	if actual != expected {
		return tb.Mismatch(b.name, t, tb.OpCompute, expected, actual,
			tb.Operand{Name: "a", Value: fmt.Sprint(x)},
			tb.Operand{Name: "b", Value: fmt.Sprint(y)},
			tb.Operand{Name: "c", Value: fmt.Sprint(c)},
		)
	}

	return nil
}
