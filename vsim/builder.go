package vsim

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/systolictb/sched"
	"github.com/sarchlab/systolictb/signal"
)

// Builder can create simulators.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	circuit signal.Circuit
}

// WithEngine sets the engine. A serial engine is created if none is given.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency. The default is 1 GHz.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithCircuit sets the circuit model to host.
func (b Builder) WithCircuit(circuit signal.Circuit) Builder {
	b.circuit = circuit
	return b
}

// Build creates a simulator. Every declared signal starts unknown.
func (b Builder) Build(name string) *Simulator {
	if b.circuit == nil {
		panic("simulator needs a circuit")
	}

	if b.engine == nil {
		b.engine = sim.NewSerialEngine()
	}

	if b.freq == 0 {
		b.freq = 1 * sim.GHz
	}

	s := &Simulator{
		name:    name,
		engine:  b.engine,
		sched:   sched.NewScheduler(),
		circuit: b.circuit,
		decls:   make(map[string]signal.Decl),
		values:  make(map[string]signal.Vector),
	}

	s.rising = s.sched.NewEvent(name + ".RisingEdge")
	s.falling = s.sched.NewEvent(name + ".FallingEdge")

	s.declare(signal.Decl{Name: ClockSignal, Width: 1, Dir: signal.Internal})
	for _, d := range b.circuit.Decls() {
		s.declare(d)
	}

	s.values[ClockSignal] = signal.Bool(false)

	s.clock = NewClock(name+".Clock", s.engine, b.freq, s)

	return s
}

func (s *Simulator) declare(d signal.Decl) {
	if _, dup := s.decls[d.Name]; dup {
		panic("signal " + d.Name + " declared twice")
	}

	s.decls[d.Name] = d
	s.values[d.Name] = signal.Unknown(d.Width)
}
