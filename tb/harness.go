// Package tb verifies clocked circuits with a four-stage pipeline. A
// generator produces inputs, a driver applies them on falling clock edges, a
// monitor captures before/after snapshots and a scoreboard checks every
// snapshot pair against a golden model. Two FIFO queues connect the stages:
// inputs flow from the generator to the driver and transactions flow from the
// monitor to the scoreboard.
//
// The stages run as cooperative tasks of the simulator's scheduler, so only
// one of them touches the circuit at any time.
package tb

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/sched"
	"github.com/sarchlab/systolictb/signal"
)

// Simulator is what the harness needs from the simulator that runs the
// circuit.
type Simulator interface {
	signal.Port

	Scheduler() *sched.Scheduler
	RunCycles(n int) error
	Cycle() uint64
}

// Harness owns the parameters, the two queues and the circuit port, and runs
// the four pipeline stages.
type Harness[S, I any] struct {
	sim.HookableBase

	name      string
	runID     string
	bench     Bench[S, I]
	simulator Simulator
	params    config.Parameters
	nChecks   int
	seed      int64
	rng       *rand.Rand
	logger    *slog.Logger

	inputs       *sched.Queue[Stimulus[I]]
	transactions *sched.Queue[Transaction[S]]

	started bool
	stopped bool
	err     error

	generated int
	driven    int
	observed  int
	scored    int
	ops       map[Op]int
}

// Name returns the name of the harness.
func (h *Harness[S, I]) Name() string {
	return h.name
}

// RunID identifies the run in logs and reports.
func (h *Harness[S, I]) RunID() string {
	return h.runID
}

// Cycle returns the number of rising clock edges so far.
func (h *Harness[S, I]) Cycle() uint64 {
	return h.simulator.Cycle()
}

// Params returns the parameters of the run.
func (h *Harness[S, I]) Params() config.Parameters {
	return h.params
}

// Start launches the pipeline. A start task first synchronizes on a rising
// edge and then starts the generator, the driver, the scoreboard and the
// monitor. Nothing runs before the next RunCycles.
func (h *Harness[S, I]) Start() {
	if h.started {
		panic("harness " + h.name + " already started")
	}

	h.started = true
	s := h.simulator.Scheduler()

	s.Go(h.name+".Start", func(ctx context.Context) error {
		if err := h.simulator.AwaitRisingEdge(ctx); err != nil {
			return err
		}

		s.Go(h.name+".Generator", h.runGenerator)
		s.Go(h.name+".Driver", h.runDriver)
		s.Go(h.name+".Scoreboard", h.runScoreboard)
		s.Go(h.name+".Monitor", h.runMonitor)

		return nil
	})

	h.trace("Harness",
		"Behavior", "Start",
		"Harness", h.name,
		"RunID", h.runID,
		"Bench", h.bench.Name(),
		"N", h.params.N,
		"OpWidth", h.params.OpWidth,
		"AccWidth", h.params.AccWidth,
		"NChecks", h.nChecks,
	)
}

// RunCycles keeps the circuit clocked for n cycles and returns the first
// fatal failure. The harness does not decide whether the run is complete:
// inputs and transactions may still be queued when it returns.
func (h *Harness[S, I]) RunCycles(n int) error {
	if !h.started {
		h.Start()
	}

	err := h.simulator.RunCycles(n)

	if err != nil && h.err == nil {
		h.err = err
		h.trace("Harness",
			"Behavior", "Failed",
			"Harness", h.name,
			"Cycle", h.simulator.Cycle(),
			"Kind", KindOf(err).Name(),
			"Error", err.Error(),
		)
	}

	return err
}

// Stop cancels the four stages. It must not be called from a task.
func (h *Harness[S, I]) Stop() {
	if h.stopped {
		return
	}

	h.stopped = true
	h.simulator.Scheduler().Stop()

	inputs, transactions := h.Pending()
	h.trace("Harness",
		"Behavior", "Stop",
		"Harness", h.name,
		"Cycle", h.simulator.Cycle(),
		"PendingInputs", inputs,
		"PendingTransactions", transactions,
	)
}

// Pending returns the number of inputs not yet driven and transactions not
// yet scored.
func (h *Harness[S, I]) Pending() (inputs, transactions int) {
	return h.inputs.Len(), h.transactions.Len()
}

// Err returns the first fatal failure of the run.
func (h *Harness[S, I]) Err() error {
	return h.err
}
