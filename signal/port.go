package signal

import "context"

// Port gives the harness access to a running circuit. Reads and writes take
// effect immediately. The Await methods suspend the calling task until the
// clock reaches the requested edge.
type Port interface {
	Read(name string) (Vector, error)
	Write(name string, v Vector) error

	AwaitRisingEdge(ctx context.Context) error
	AwaitFallingEdge(ctx context.Context) error

	// AwaitCycles waits for n rising edges.
	AwaitCycles(ctx context.Context, n int) error
}
