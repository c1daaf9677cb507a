package tb

import (
	"math/rand"

	"github.com/sarchlab/systolictb/signal"
)

// Stimulus is an input tagged with its generation order.
type Stimulus[I any] struct {
	Seq   uint64
	Input I
}

// Transaction is a pair of snapshots taken Cycles cycles apart. Seq is the
// observation order and Cycle the clock cycle of the first snapshot.
type Transaction[S any] struct {
	Seq    uint64
	Cycle  uint64
	Cycles int
	Before S
	After  S
}

// Bench is what a circuit must provide to be verified. S is the snapshot
// type and I the input type. Every method is called from a pipeline task and
// must not suspend.
type Bench[S, I any] interface {
	Name() string

	// Generate returns the i-th input. Randomness comes from rng only.
	Generate(i int, rng *rand.Rand) (I, error)

	// Drive writes an input on the circuit ports.
	Drive(port signal.Port, in I) error

	// Snapshot reads every signal of interest.
	Snapshot(port signal.Port) (S, error)

	// InputOp and SnapshotOp classify an input and the snapshot taken while
	// that input is applied. They must agree for the driver and the monitor
	// to stay in phase.
	InputOp(in I) Op
	SnapshotOp(s S) Op

	// Latency is shared by the driver and the monitor.
	Latency() LatencyPolicy

	// Score checks a transaction against the golden model and returns an
	// *UnresolvedError or a *MismatchError on failure.
	Score(t Transaction[S]) error
}
