// Package inputmanager verifies the GEMM input manager that buffers the
// operands of the systolic array.
//
// Every transaction spans one cycle. After a reset both buffers are zero;
// otherwise every enabled A lane shifts its row and every enabled B lane
// shifts its column, and the new element enters at the far end.
package inputmanager

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/golden"
	"github.com/sarchlab/systolictb/signal"
	"github.com/sarchlab/systolictb/tb"
	"github.com/sarchlab/systolictb/util/valgen"
)

// Snapshot holds the input manager signals at a clock edge.
type Snapshot struct {
	Reset     tb.Field[bool]
	Column    tb.Field[[]uint64]
	ColumnEna tb.Field[[]bool]
	Row       tb.Field[[]uint64]
	RowEna    tb.Field[[]bool]
	A         tb.Field[golden.Matrix]
	B         tb.Field[golden.Matrix]
}

// Input is one stimulus of the input manager.
type Input struct {
	Reset     bool
	Column    []uint64
	ColumnEna []bool
	Row       []uint64
	RowEna    []bool
}

// Bench drives and scores an input manager.
type Bench struct {
	name        string
	params      config.Parameters
	resetPolicy tb.ResetPolicy
	operandGen  valgen.Gen
	laneGen     valgen.Gen
}

// Name returns the name of the bench.
func (b *Bench) Name() string {
	return b.name
}

// Generate returns the i-th input.
func (b *Bench) Generate(i int, rng *rand.Rand) (Input, error) {
	n := b.params.N
	in := Input{
		Reset:     b.resetPolicy(i),
		Column:    valgen.Fill(b.operandGen, rng, n),
		ColumnEna: b.lanes(rng),
		Row:       valgen.Fill(b.operandGen, rng, n),
		RowEna:    b.lanes(rng),
	}

	if err := b.params.CheckOperands(in.Column...); err != nil {
		return in, err
	}

	return in, b.params.CheckOperands(in.Row...)
}

func (b *Bench) lanes(rng *rand.Rand) []bool {
	ena := make([]bool, b.params.N)
	for k := range ena {
		ena[k] = b.laneGen(rng)&1 == 1
	}

	return ena
}

// Drive writes the input on the input manager ports.
func (b *Bench) Drive(port signal.Port, in Input) error {
	n := b.params.N
	if len(in.Column) != n || len(in.Row) != n ||
		len(in.ColumnEna) != n || len(in.RowEna) != n {
		return config.NewError("n", fmt.Sprintf("input lanes do not match N=%d", n))
	}

	col, err := signal.PackArray(in.Column, b.params.OpWidth)
	if err != nil {
		return config.WrapError("op_width", err)
	}

	row, err := signal.PackArray(in.Row, b.params.OpWidth)
	if err != nil {
		return config.WrapError("op_width", err)
	}

	writes := []struct {
		name string
		v    signal.Vector
	}{
		{"reset", signal.Bool(in.Reset)},
		{"new_a_column", col},
		{"new_a_column_ena", packFlags(in.ColumnEna)},
		{"new_b_row", row},
		{"new_b_row_ena", packFlags(in.RowEna)},
	}

	for _, w := range writes {
		if err := port.Write(w.name, w.v); err != nil {
			return err
		}
	}

	return nil
}

func packFlags(flags []bool) signal.Vector {
	bits := make([]uint64, len(flags))
	for i, f := range flags {
		if f {
			bits[i] = 1
		}
	}

	v, err := signal.PackArray(bits, 1)
	if err != nil {
		panic(err)
	}

	return v
}

// Snapshot reads the input manager signals.
func (b *Bench) Snapshot(port signal.Port) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)

	n, w := b.params.N, b.params.OpWidth

	if s.Reset, err = tb.ReadFlag(port, "reset"); err != nil {
		return s, err
	}

	if s.Column, err = tb.ReadArray(port, "new_a_column", n, w); err != nil {
		return s, err
	}

	if s.ColumnEna, err = tb.ReadFlags(port, "new_a_column_ena", n); err != nil {
		return s, err
	}

	if s.Row, err = tb.ReadArray(port, "new_b_row", n, w); err != nil {
		return s, err
	}

	if s.RowEna, err = tb.ReadFlags(port, "new_b_row_ena", n); err != nil {
		return s, err
	}

	if s.A, err = readMatrix(port, "a", n, w); err != nil {
		return s, err
	}

	if s.B, err = readMatrix(port, "b", n, w); err != nil {
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

// InputOp classifies an input. An input without enabled lanes holds.
func (b *Bench) InputOp(in Input) tb.Op {
	if in.Reset {
		return tb.OpReset
	}

	if !anySet(in.ColumnEna) && !anySet(in.RowEna) {
		return tb.OpHold
	}

	return tb.OpCompute
}

// SnapshotOp classifies a snapshot. Unknown control signals count as a
// reset.
func (b *Bench) SnapshotOp(s Snapshot) tb.Op {
	reset, ok := s.Reset.Get()
	if !ok || reset {
		return tb.OpReset
	}

	colEna, okCol := s.ColumnEna.Get()
	rowEna, okRow := s.RowEna.Get()
	if okCol && okRow && !anySet(colEna) && !anySet(rowEna) {
		return tb.OpHold
	}

	return tb.OpCompute
}

func anySet(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}

	return false
}

// Latency is one cycle for every operation.
func (b *Bench) Latency() tb.LatencyPolicy {
	return tb.FixedLatency(1)
}

// Score checks both operand buffers after the transaction.
func (b *Bench) Score(t tb.Transaction[Snapshot]) error {
	n := b.params.N

	reset, ok := t.Before.Reset.Get()
	if !ok {
		return tb.Unresolved(b.name, t, "reset")
	}

	if reset {
		return b.compare(t, tb.OpReset, golden.NewMatrix(n), golden.NewMatrix(n))
	}

	var missing []string
	for _, f := range []struct {
		name  string
		valid bool
	}{
		{"new_a_column", t.Before.Column.Valid()},
		{"new_a_column_ena", t.Before.ColumnEna.Valid()},
		{"new_b_row", t.Before.Row.Valid()},
		{"new_b_row_ena", t.Before.RowEna.Valid()},
		{"a", t.Before.A.Valid()},
		{"b", t.Before.B.Valid()},
	} {
		if !f.valid {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return tb.Unresolved(b.name, t, missing...)
	}

	col, _ := t.Before.Column.Get()
	colEna, _ := t.Before.ColumnEna.Get()
	row, _ := t.Before.Row.Get()
	rowEna, _ := t.Before.RowEna.Get()
	a, _ := t.Before.A.Get()
	x, _ := t.Before.B.Get()

	return b.compare(t, b.SnapshotOp(t.Before),
		golden.ShiftRowsIn(a, col, colEna),
		golden.ShiftColumnsIn(x, row, rowEna),
		tb.Operand{Name: "a", Value: a.String()},
		tb.Operand{Name: "b", Value: x.String()},
		tb.Operand{Name: "new_a_column", Value: fmt.Sprint(col, colEna)},
		tb.Operand{Name: "new_b_row", Value: fmt.Sprint(row, rowEna)},
	)
}

func (b *Bench) compare(
	t tb.Transaction[Snapshot],
	op tb.Op,
	wantA, wantB golden.Matrix,
	operands ...tb.Operand,
) error {
	var missing []string
	if !t.After.A.Valid() {
		missing = append(missing, "a")
	}

	if !t.After.B.Valid() {
		missing = append(missing, "b")
	}

	if len(missing) > 0 {
		return tb.Unresolved(b.name, t, missing...)
	}

	gotA, _ := t.After.A.Get()
	gotB, _ := t.After.B.Get()

	if !gotA.Equal(wantA) {
		return tb.Mismatch(b.name, t, op, "a="+wantA.String(),
			"a="+gotA.String(), operands...)
	}

	if !gotB.Equal(wantB) {
		return tb.Mismatch(b.name, t, op, "b="+wantB.String(),
			"b="+gotB.String(), operands...)
	}

	return nil
}
