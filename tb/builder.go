package tb

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolictb/config"
	"github.com/sarchlab/systolictb/sched"
)

// HarnessBuilder can create harnesses.
type HarnessBuilder[S, I any] struct {
	bench     Bench[S, I]
	simulator Simulator
	params    config.Parameters
	nChecks   int
	seed      int64
	hooks     []sim.Hook
	logger    *slog.Logger
}

// MakeHarnessBuilder returns a builder with default parameters and seed 1.
func MakeHarnessBuilder[S, I any]() HarnessBuilder[S, I] {
	return HarnessBuilder[S, I]{
		params: config.DefaultParameters(),
		seed:   1,
	}
}

// WithBench sets the circuit-specific part of the harness.
func (b HarnessBuilder[S, I]) WithBench(bench Bench[S, I]) HarnessBuilder[S, I] {
	b.bench = bench
	return b
}

// WithSimulator sets the simulator that runs the circuit.
func (b HarnessBuilder[S, I]) WithSimulator(s Simulator) HarnessBuilder[S, I] {
	b.simulator = s
	return b
}

// WithParameters sets the parameters of the run.
func (b HarnessBuilder[S, I]) WithParameters(
	p config.Parameters,
) HarnessBuilder[S, I] {
	b.params = p
	return b
}

// WithChecks sets how many inputs the generator produces.
func (b HarnessBuilder[S, I]) WithChecks(n int) HarnessBuilder[S, I] {
	b.nChecks = n
	return b
}

// WithSeed sets the seed of the generator.
func (b HarnessBuilder[S, I]) WithSeed(seed int64) HarnessBuilder[S, I] {
	b.seed = seed
	return b
}

// WithHook attaches a hook to the harness.
func (b HarnessBuilder[S, I]) WithHook(hook sim.Hook) HarnessBuilder[S, I] {
	b.hooks = append(b.hooks, hook)
	return b
}

// WithLogger sets where the harness logs its start, stop and failure.
func (b HarnessBuilder[S, I]) WithLogger(logger *slog.Logger) HarnessBuilder[S, I] {
	b.logger = logger
	return b
}

// Build creates a harness. Inconsistent parameters are reported as a
// *config.Error before anything is driven.
func (b HarnessBuilder[S, I]) Build(name string) (*Harness[S, I], error) {
	if b.bench == nil {
		panic("harness needs a bench")
	}

	if b.simulator == nil {
		panic("harness needs a simulator")
	}

	if err := b.params.Validate(); err != nil {
		return nil, err
	}

	if b.nChecks < 0 {
		return nil, config.NewError("n_checks",
			fmt.Sprintf("%d is negative", b.nChecks))
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := b.simulator.Scheduler()
	h := &Harness[S, I]{
		name:         name,
		runID:        xid.New().String(),
		bench:        b.bench,
		simulator:    b.simulator,
		params:       b.params,
		nChecks:      b.nChecks,
		seed:         b.seed,
		rng:          rand.New(rand.NewSource(b.seed)),
		logger:       logger,
		inputs:       sched.NewQueue[Stimulus[I]](s, name+".InputQueue"),
		transactions: sched.NewQueue[Transaction[S]](s, name+".TransactionQueue"),
		ops:          make(map[Op]int),
	}

	for _, hook := range b.hooks {
		h.AcceptHook(hook)
	}

	return h, nil
}
