package sched

import "context"

// Event suspends tasks until it is notified.
type Event struct {
	s       *Scheduler
	name    string
	waiters []*Task
}

// NewEvent creates an event owned by the scheduler.
func (s *Scheduler) NewEvent(name string) *Event {
	return &Event{s: s, name: name}
}

// Name returns the name of the event.
func (e *Event) Name() string {
	return e.name
}

// Wait suspends the calling task until the next Notify.
func (e *Event) Wait(ctx context.Context) error {
	t, err := e.s.current(ctx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	e.waiters = append(e.waiters, t)

	return t.suspend(ctx)
}

// Notify makes every waiting task ready, in the order they started waiting.
func (e *Event) Notify() {
	waiters := e.waiters
	e.waiters = nil

	for _, t := range waiters {
		e.s.wake(t)
	}
}

// NumWaiters returns the number of suspended waiters.
func (e *Event) NumWaiters() int {
	return len(e.waiters)
}
