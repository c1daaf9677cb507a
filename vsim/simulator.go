// Package vsim is a virtual simulator for clocked circuit models. It drives a
// clock on an akita engine, stores signal values and lets cooperative tasks
// wait for clock edges.
package vsim

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolictb/sched"
	"github.com/sarchlab/systolictb/signal"
)

// ClockSignal is the name under which the clock level can be read.
const ClockSignal = "clk"

// Simulator hosts one circuit model. It implements signal.Port for tasks
// started through its scheduler.
type Simulator struct {
	name    string
	engine  sim.Engine
	clock   *Clock
	sched   *sched.Scheduler
	circuit signal.Circuit

	decls  map[string]signal.Decl
	values map[string]signal.Vector

	rising  *sched.Event
	falling *sched.Event
}

// Name returns the name of the simulator.
func (s *Simulator) Name() string {
	return s.name
}

// Engine returns the engine that schedules the clock edges.
func (s *Simulator) Engine() sim.Engine {
	return s.engine
}

// Clock returns the clock of the simulator.
func (s *Simulator) Clock() *Clock {
	return s.clock
}

// Scheduler returns the scheduler that runs the tasks of the simulator.
func (s *Simulator) Scheduler() *sched.Scheduler {
	return s.sched
}

// Circuit returns the hosted circuit model.
func (s *Simulator) Circuit() signal.Circuit {
	return s.circuit
}

// Cycle returns the number of rising edges so far.
func (s *Simulator) Cycle() uint64 {
	return s.clock.Cycles()
}

// Go starts a task on the scheduler of the simulator.
func (s *Simulator) Go(name string, fn func(ctx context.Context) error) {
	s.sched.Go(name, fn)
}

// Read returns the current value of a signal.
func (s *Simulator) Read(name string) (signal.Vector, error) {
	v, ok := s.values[name]
	if !ok {
		return signal.Vector{}, errors.Wrapf(signal.ErrNoSuchSignal,
			"%s.%s", s.circuit.Name(), name)
	}

	return v, nil
}

// Write sets an input signal. The value is visible immediately.
func (s *Simulator) Write(name string, v signal.Vector) error {
	d, ok := s.decls[name]
	if !ok {
		return errors.Wrapf(signal.ErrNoSuchSignal,
			"%s.%s", s.circuit.Name(), name)
	}

	if d.Dir != signal.Input {
		return errors.Wrapf(signal.ErrNotWritable,
			"%s.%s is an %s", s.circuit.Name(), name, d.Dir.Name())
	}

	if v.Width() != d.Width {
		return errors.Wrapf(signal.ErrWidthMismatch,
			"%s.%s has %d bits, got %d", s.circuit.Name(), name,
			d.Width, v.Width())
	}

	s.values[name] = v

	return nil
}

// AwaitRisingEdge suspends the calling task until the next rising edge.
func (s *Simulator) AwaitRisingEdge(ctx context.Context) error {
	return s.rising.Wait(ctx)
}

// AwaitFallingEdge suspends the calling task until the next falling edge.
func (s *Simulator) AwaitFallingEdge(ctx context.Context) error {
	return s.falling.Wait(ctx)
}

// AwaitCycles suspends the calling task for n rising edges.
func (s *Simulator) AwaitCycles(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := s.rising.Wait(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Get implements signal.Bank for the circuit model.
func (s *Simulator) Get(name string) signal.Vector {
	v, ok := s.values[name]
	if !ok {
		panic("circuit reads undeclared signal " + name)
	}

	return v
}

// Set implements signal.Bank for the circuit model.
func (s *Simulator) Set(name string, v signal.Vector) {
	d, ok := s.decls[name]
	if !ok {
		panic("circuit writes undeclared signal " + name)
	}

	if d.Width != v.Width() {
		panic("circuit writes signal " + name + " with a wrong width")
	}

	s.values[name] = v
}

// OnEdge wakes the tasks waiting for the edge. On a rising edge, the circuit
// ticks once those tasks are suspended again.
func (s *Simulator) OnEdge(rising bool) {
	s.values[ClockSignal] = signal.Bool(rising)

	if rising {
		slog.Debug("ClockEdge",
			"Sim", s.name, "Edge", "Rising", "Cycle", s.clock.Cycles())
		s.rising.Notify()
		s.sched.RunReady()
		s.circuit.Tick(s)

		return
	}

	slog.Debug("ClockEdge",
		"Sim", s.name, "Edge", "Falling", "Cycle", s.clock.Cycles())
	s.falling.Notify()
	s.sched.RunReady()
}

// Halted stops the clock once a task failed or the simulator is stopped.
func (s *Simulator) Halted() bool {
	return s.sched.Err() != nil || s.sched.Stopped()
}

// Err returns the first task failure.
func (s *Simulator) Err() error {
	return s.sched.Err()
}

// RunCycles lets the clock run for n rising edges and returns the first task
// failure, if any. Tasks registered before the call get to run before the
// first edge.
func (s *Simulator) RunCycles(n int) error {
	if n < 0 {
		return errors.Errorf("negative cycle count %d", n)
	}

	if s.sched.Stopped() {
		return errors.New("simulator " + s.name + " is stopped")
	}

	s.sched.RunReady()
	if err := s.sched.Err(); err != nil {
		return err
	}

	s.clock.Extend(n)

	if err := s.engine.Run(); err != nil {
		return errors.Wrap(err, "engine failed")
	}

	return s.sched.Err()
}

// Stop cancels every task. Tasks waiting for an edge return
// context.Canceled.
func (s *Simulator) Stop() {
	s.sched.Stop()
}
