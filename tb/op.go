package tb

// Op classifies a stimulus or a snapshot by what the circuit does with it.
type Op int

const (
	OpReset Op = iota
	OpHold
	OpCompute
)

// Name returns the name of the operation.
func (o Op) Name() string {
	switch o {
	case OpReset:
		return "Reset"
	case OpHold:
		return "Hold"
	case OpCompute:
		return "Compute"
	default:
		panic("invalid op")
	}
}

// A LatencyPolicy tells how many cycles an operation takes. The driver waits
// that long after driving an input and the monitor waits that long between
// the two snapshots of a transaction, so both stay in phase.
type LatencyPolicy interface {
	Cycles(op Op) int
}

// LatencyFunc adapts a function to a LatencyPolicy.
type LatencyFunc func(op Op) int

// Cycles calls f.
func (f LatencyFunc) Cycles(op Op) int {
	return f(op)
}

// FixedLatency takes n cycles for every operation.
func FixedLatency(n int) LatencyFunc {
	return func(Op) int {
		return n
	}
}
