// Package sched runs cooperative tasks. Every task is a goroutine, but only
// one of them runs at a time: a task runs until it suspends on an Event, a
// Queue or a Yield, and then hands control back to the scheduler. State that
// is only touched from tasks (or from the scheduler goroutine while no task
// runs) therefore needs no lock.
package sched

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

// ErrNotInTask is returned when a suspending call is made with a context that
// was not handed out by the scheduler.
var ErrNotInTask = errors.New("not called from a scheduled task")

type taskKey struct{}

// Task is one cooperative thread of control.
type Task struct {
	name   string
	s      *Scheduler
	resume chan struct{}
	queued bool
	done   bool
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// Done reports whether the task function has returned.
func (t *Task) Done() bool {
	return t.done
}

// Scheduler owns a set of tasks and decides which one runs.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc

	ready   []*Task
	tasks   []*Task
	running *Task
	parked  chan struct{}

	err error
}

// NewScheduler creates a scheduler without tasks.
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		parked: make(chan struct{}),
	}
}

// Go registers a new task. The task does not start before the next RunReady.
// Go may be called from the scheduler goroutine or from a running task.
func (s *Scheduler) Go(name string, fn func(ctx context.Context) error) *Task {
	t := &Task{
		name:   name,
		s:      s,
		resume: make(chan struct{}),
	}
	s.tasks = append(s.tasks, t)

	ctx := context.WithValue(s.ctx, taskKey{}, t)
	go t.run(ctx, fn)

	s.wake(t)

	return t
}

func (t *Task) run(ctx context.Context, fn func(ctx context.Context) error) {
	<-t.resume

	err := t.call(ctx, fn)

	t.done = true
	if err != nil && !errors.Is(err, context.Canceled) {
		t.s.fail(t, err)
	}

	t.s.parked <- struct{}{}
}

func (t *Task) call(
	ctx context.Context,
	fn func(ctx context.Context) error,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("task %s panicked: %v", t.name, r)
		}
	}()

	return fn(ctx)
}

func (s *Scheduler) fail(t *Task, err error) {
	slog.Error("TaskFailed", "Task", t.name, "Error", err.Error())

	if s.err == nil {
		s.err = err
	}
}

// Err returns the error of the first task that failed.
func (s *Scheduler) Err() error {
	return s.err
}

// RunReady resumes ready tasks one after the other until every task is
// suspended or finished. It must not be called from a task.
func (s *Scheduler) RunReady() {
	if s.running != nil {
		panic("RunReady called from task " + s.running.name)
	}

	for len(s.ready) > 0 {
		t := s.ready[0]
		s.ready[0] = nil
		s.ready = s.ready[1:]
		t.queued = false

		if t.done {
			continue
		}

		s.running = t
		t.resume <- struct{}{}
		<-s.parked
		s.running = nil
	}
}

// Stop cancels every task. Suspended tasks are resumed and their suspending
// call returns context.Canceled, so that they can return.
func (s *Scheduler) Stop() {
	s.cancel()

	for _, t := range s.tasks {
		s.wake(t)
	}

	s.RunReady()
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s.ctx.Err() != nil
}

// Alive returns the number of tasks that have not returned yet.
func (s *Scheduler) Alive() int {
	n := 0
	for _, t := range s.tasks {
		if !t.done {
			n++
		}
	}

	return n
}

// Yield lets every other ready task run before the calling task continues.
func (s *Scheduler) Yield(ctx context.Context) error {
	t, err := s.current(ctx)
	if err != nil {
		return err
	}

	s.wake(t)

	return t.suspend(ctx)
}

func (s *Scheduler) wake(t *Task) {
	if t.done || t.queued {
		return
	}

	t.queued = true
	s.ready = append(s.ready, t)
}

func (s *Scheduler) current(ctx context.Context) (*Task, error) {
	t, ok := ctx.Value(taskKey{}).(*Task)
	if !ok || t.s != s {
		return nil, ErrNotInTask
	}

	if s.running != t {
		panic("task " + t.name + " suspends while not running")
	}

	return t, nil
}

func (t *Task) suspend(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.s.parked <- struct{}{}
	<-t.resume

	return ctx.Err()
}
