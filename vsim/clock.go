package vsim

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosRisingEdge marks a rising edge of the clock.
var HookPosRisingEdge = &sim.HookPos{Name: "Rising Edge"}

// HookPosFallingEdge marks a falling edge of the clock.
var HookPosFallingEdge = &sim.HookPos{Name: "Falling Edge"}

// An EdgeListener is told about every clock edge.
type EdgeListener interface {
	OnEdge(rising bool)

	// Halted stops the clock after the current edge.
	Halted() bool
}

type edgeEvent struct {
	*sim.EventBase

	rising bool
}

// Clock is a free-running clock that schedules its edges as events on an
// akita engine. It only runs while it has cycle budget; the budget counts
// rising edges.
type Clock struct {
	sim.HookableBase

	name       string
	engine     sim.Engine
	halfPeriod sim.VTimeInSec
	listener   EdgeListener

	level      bool
	nextTime   sim.VTimeInSec
	nextRising bool
	budget     int
	scheduled  bool
	cycles     uint64
}

// NewClock creates a clock whose first edge is a rising edge at the current
// engine time.
func NewClock(
	name string,
	engine sim.Engine,
	freq sim.Freq,
	listener EdgeListener,
) *Clock {
	if freq <= 0 {
		panic("clock frequency must be positive")
	}

	return &Clock{
		name:       name,
		engine:     engine,
		halfPeriod: sim.VTimeInSec(0.5 / float64(freq)),
		listener:   listener,
		nextTime:   engine.CurrentTime(),
		nextRising: true,
	}
}

// Name returns the name of the clock.
func (c *Clock) Name() string {
	return c.name
}

// Level returns the current clock level.
func (c *Clock) Level() bool {
	return c.level
}

// Cycles returns the number of rising edges so far.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// Extend lets the clock run for n more rising edges.
func (c *Clock) Extend(n int) {
	if n < 0 {
		panic(fmt.Sprintf("clock %s: negative cycle count %d", c.name, n))
	}

	c.budget += n
	if !c.scheduled && c.budget > 0 {
		c.scheduleNext()
	}
}

func (c *Clock) scheduleNext() {
	evt := &edgeEvent{
		EventBase: sim.NewEventBase(c.nextTime, c),
		rising:    c.nextRising,
	}
	c.engine.Schedule(evt)
	c.scheduled = true
}

// Handle toggles the clock.
func (c *Clock) Handle(e sim.Event) error {
	evt, ok := e.(*edgeEvent)
	if !ok {
		panic(fmt.Sprintf("clock %s cannot handle %T", c.name, e))
	}

	c.scheduled = false
	c.level = evt.rising

	pos := HookPosFallingEdge
	if evt.rising {
		pos = HookPosRisingEdge
		c.budget--
		c.cycles++
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   c.cycles,
	})

	c.listener.OnEdge(evt.rising)

	c.nextTime = evt.Time() + c.halfPeriod
	c.nextRising = !evt.rising

	if c.listener.Halted() {
		c.budget = 0
		return nil
	}

	if evt.rising && c.budget <= 0 {
		return nil
	}

	c.scheduleNext()

	return nil
}
