package sched

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Scheduler", func() {
	var (
		s     *Scheduler
		trace []string
	)

	BeforeEach(func() {
		s = NewScheduler()
		trace = nil
	})

	AfterEach(func() {
		s.Stop()
	})

	It("should not start tasks before RunReady", func() {
		s.Go("t", func(ctx context.Context) error {
			trace = append(trace, "run")
			return nil
		})

		Expect(trace).To(BeEmpty())

		s.RunReady()

		Expect(trace).To(Equal([]string{"run"}))
		Expect(s.Alive()).To(Equal(0))
	})

	It("should interleave tasks at yields", func() {
		for _, name := range []string{"a", "b"} {
			name := name
			s.Go(name, func(ctx context.Context) error {
				for i := 0; i < 2; i++ {
					trace = append(trace, name)
					if err := s.Yield(ctx); err != nil {
						return err
					}
				}

				return nil
			})
		}

		s.RunReady()

		Expect(trace).To(Equal([]string{"a", "b", "a", "b"}))
	})

	It("should start tasks spawned by a task in the same round", func() {
		s.Go("parent", func(ctx context.Context) error {
			trace = append(trace, "parent")
			s.Go("child", func(ctx context.Context) error {
				trace = append(trace, "child")
				return nil
			})

			return nil
		})

		s.RunReady()

		Expect(trace).To(Equal([]string{"parent", "child"}))
	})

	It("should wake waiters in order", func() {
		e := s.NewEvent("e")

		for _, name := range []string{"first", "second"} {
			name := name
			s.Go(name, func(ctx context.Context) error {
				if err := e.Wait(ctx); err != nil {
					return err
				}

				trace = append(trace, name)

				return nil
			})
		}

		s.RunReady()
		Expect(e.NumWaiters()).To(Equal(2))
		Expect(trace).To(BeEmpty())

		e.Notify()
		s.RunReady()

		Expect(trace).To(Equal([]string{"first", "second"}))
	})

	It("should record the first failure", func() {
		s.Go("bad", func(ctx context.Context) error {
			return errors.New("boom")
		})
		s.Go("worse", func(ctx context.Context) error {
			return errors.New("bang")
		})

		s.RunReady()

		Expect(s.Err()).To(MatchError("boom"))
	})

	It("should turn a panic into a failure", func() {
		s.Go("panicky", func(ctx context.Context) error {
			panic("oops")
		})

		s.RunReady()

		Expect(s.Err()).To(MatchError(ContainSubstring("oops")))
	})

	It("should refuse to suspend outside of a task", func() {
		err := s.Yield(context.Background())

		Expect(err).To(Equal(ErrNotInTask))
	})

	It("should cancel suspended tasks on stop", func() {
		e := s.NewEvent("never")
		var waitErr error

		t := s.Go("waiter", func(ctx context.Context) error {
			waitErr = e.Wait(ctx)
			return waitErr
		})

		s.RunReady()
		Expect(t.Done()).To(BeFalse())

		s.Stop()

		Expect(t.Done()).To(BeTrue())
		Expect(s.Stopped()).To(BeTrue())
		Expect(errors.Is(waitErr, context.Canceled)).To(BeTrue())
		Expect(s.Err()).NotTo(HaveOccurred())
	})
})

var _ = Describe("Queue", func() {
	var (
		s *Scheduler
		q *Queue[int]
	)

	BeforeEach(func() {
		s = NewScheduler()
		q = NewQueue[int](s, "q")
	})

	AfterEach(func() {
		s.Stop()
	})

	It("should deliver items in FIFO order", func() {
		var got []int

		s.Go("consumer", func(ctx context.Context) error {
			for {
				x, err := q.Get(ctx)
				if err != nil {
					return err
				}

				got = append(got, x)
			}
		})

		s.Go("producer", func(ctx context.Context) error {
			for i := 0; i < 5; i++ {
				q.Put(i)
				if err := s.Yield(ctx); err != nil {
					return err
				}
			}

			return nil
		})

		s.RunReady()

		Expect(got).To(Equal([]int{0, 1, 2, 3, 4}))
		Expect(q.Len()).To(Equal(0))
	})

	It("should suspend the consumer while empty", func() {
		got := -1

		s.Go("consumer", func(ctx context.Context) error {
			x, err := q.Get(ctx)
			got = x

			return err
		})

		s.RunReady()
		Expect(got).To(Equal(-1))

		q.Put(42)
		s.RunReady()

		Expect(got).To(Equal(42))
	})

	It("should keep unconsumed items after stop", func() {
		q.Put(1)
		q.Put(2)

		s.Stop()

		Expect(q.Len()).To(Equal(2))
		Expect(q.Name()).To(Equal("q"))
	})
})
