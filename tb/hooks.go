package tb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosInputGenerated marks an input entering the input queue.
var HookPosInputGenerated = &sim.HookPos{Name: "Input Generated"}

// HookPosInputDriven marks an input written to the circuit.
var HookPosInputDriven = &sim.HookPos{Name: "Input Driven"}

// HookPosTransactionObserved marks a transaction entering the transaction
// queue.
var HookPosTransactionObserved = &sim.HookPos{Name: "Transaction Observed"}

// HookPosTransactionScored marks a transaction that passed the scoreboard.
var HookPosTransactionScored = &sim.HookPos{Name: "Transaction Scored"}

// SeqOf returns the sequence tag of a hook item, or false if the item is not
// a stimulus or a transaction.
func SeqOf(item any) (uint64, bool) {
	if s, ok := item.(interface{ seq() uint64 }); ok {
		return s.seq(), true
	}

	return 0, false
}

func (s Stimulus[I]) seq() uint64 {
	return s.Seq
}

func (t Transaction[S]) seq() uint64 {
	return t.Seq
}

// TraceHook logs every pipeline event it is attached to.
type TraceHook struct {
	logger *slog.Logger
}

// NewTraceHook creates a hook that logs at LevelTrace. A nil logger means
// the default logger.
func NewTraceHook(logger *slog.Logger) *TraceHook {
	if logger == nil {
		logger = slog.Default()
	}

	return &TraceHook{logger: logger}
}

// Func logs the event.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	args := []any{"Behavior", ctx.Pos.Name}

	if d, ok := ctx.Domain.(interface{ Name() string }); ok {
		args = append(args, "Harness", d.Name())
	}

	if seq, ok := SeqOf(ctx.Item); ok {
		args = append(args, "Seq", seq)
	}

	args = append(args, "Item", fmt.Sprintf("%+v", ctx.Item))

	h.logger.Log(context.Background(), LevelTrace, "Pipeline", args...)
}
