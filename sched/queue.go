package sched

import "context"

// Queue is an unbounded FIFO with one producer and one consumer. Put never
// suspends; Get suspends while the queue is empty.
type Queue[T any] struct {
	name     string
	items    []T
	nonEmpty *Event
}

// NewQueue creates an empty queue owned by the scheduler.
func NewQueue[T any](s *Scheduler, name string) *Queue[T] {
	return &Queue[T]{
		name:     name,
		nonEmpty: s.NewEvent(name + ".NonEmpty"),
	}
}

// Name returns the name of the queue.
func (q *Queue[T]) Name() string {
	return q.name
}

// Put appends an item and wakes the consumer.
func (q *Queue[T]) Put(item T) {
	q.items = append(q.items, item)
	q.nonEmpty.Notify()
}

// Get removes the oldest item, suspending the calling task while the queue
// is empty.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	var zero T

	for len(q.items) == 0 {
		if err := q.nonEmpty.Wait(ctx); err != nil {
			return zero, err
		}
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	return item, nil
}

// Len returns the number of items waiting.
func (q *Queue[T]) Len() int {
	return len(q.items)
}
