package tb

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
)

// runGenerator produces exactly nChecks inputs, then returns. It yields after
// every input so that the other stages interleave with it.
func (h *Harness[S, I]) runGenerator(ctx context.Context) error {
	s := h.simulator.Scheduler()

	for i := 0; i < h.nChecks; i++ {
		in, err := h.bench.Generate(i, h.rng)
		if err != nil {
			return errors.Wrapf(err, "generating input %d", i)
		}

		stim := Stimulus[I]{Seq: uint64(i), Input: in}
		h.inputs.Put(stim)
		h.generated++

		h.InvokeHook(sim.HookCtx{
			Domain: h,
			Pos:    HookPosInputGenerated,
			Item:   stim,
		})

		if err := s.Yield(ctx); err != nil {
			return err
		}
	}

	return nil
}

// runDriver applies inputs on falling edges, then holds each input for its
// latency.
func (h *Harness[S, I]) runDriver(ctx context.Context) error {
	for {
		if err := h.simulator.AwaitFallingEdge(ctx); err != nil {
			return err
		}

		stim, err := h.inputs.Get(ctx)
		if err != nil {
			return err
		}

		if err := h.bench.Drive(h.simulator, stim.Input); err != nil {
			return errors.Wrapf(err, "driving input %d", stim.Seq)
		}
		h.driven++

		h.InvokeHook(sim.HookCtx{
			Domain: h,
			Pos:    HookPosInputDriven,
			Item:   stim,
		})

		op := h.bench.InputOp(stim.Input)
		latency := h.bench.Latency().Cycles(op)
		if latency < 1 {
			return errors.Errorf("latency of %s is %d cycles", op.Name(), latency)
		}

		if err := h.simulator.AwaitCycles(ctx, latency); err != nil {
			return err
		}
	}
}

// runMonitor captures a snapshot, waits for the latency of the operation
// the snapshot shows, captures a second snapshot and queues the pair.
func (h *Harness[S, I]) runMonitor(ctx context.Context) error {
	if err := h.simulator.AwaitRisingEdge(ctx); err != nil {
		return err
	}

	for seq := uint64(0); ; seq++ {
		cycle := h.simulator.Cycle()

		before, err := h.bench.Snapshot(h.simulator)
		if err != nil {
			return errors.Wrapf(err, "snapshot at cycle %d", cycle)
		}

		op := h.bench.SnapshotOp(before)
		latency := h.bench.Latency().Cycles(op)
		if latency < 1 {
			return errors.Errorf("latency of %s is %d cycles", op.Name(), latency)
		}

		if err := h.simulator.AwaitCycles(ctx, latency); err != nil {
			return err
		}

		after, err := h.bench.Snapshot(h.simulator)
		if err != nil {
			return errors.Wrapf(err, "snapshot at cycle %d",
				h.simulator.Cycle())
		}

		t := Transaction[S]{
			Seq:    seq,
			Cycle:  cycle,
			Cycles: latency,
			Before: before,
			After:  after,
		}
		h.transactions.Put(t)
		h.observed++

		h.InvokeHook(sim.HookCtx{
			Domain: h,
			Pos:    HookPosTransactionObserved,
			Item:   t,
		})
	}
}

// runScoreboard scores every transaction in observation order. The first
// failure ends the run.
func (h *Harness[S, I]) runScoreboard(ctx context.Context) error {
	for {
		t, err := h.transactions.Get(ctx)
		if err != nil {
			return err
		}

		if t.Seq != uint64(h.scored) {
			return errors.Errorf("transaction %d scored as %d", t.Seq, h.scored)
		}

		if err := h.bench.Score(t); err != nil {
			return err
		}

		h.scored++
		h.ops[h.bench.SnapshotOp(t.Before)]++

		h.InvokeHook(sim.HookCtx{
			Domain: h,
			Pos:    HookPosTransactionScored,
			Item:   t,
		})
	}
}
