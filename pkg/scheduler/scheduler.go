package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task is the unit of work invoked on every tick.
type Task func(ctx context.Context)

// Scheduler runs a Task on a Schedule in its own goroutine until stopped.
type Scheduler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	schedule Schedule
	task     Task
	opts     *options
	done     chan struct{}
	once     sync.Once
	runs     atomic.Int64
}

// Start launches a goroutine that calls task whenever schedule fires.
// The goroutine exits when Stop is called or parent is cancelled.
//
// Example:
//
//	s := scheduler.Start(ctx, scheduler.Every(time.Minute), func(ctx context.Context) {
//	    c.Cleanup()
//	}, scheduler.WithName("products"))
//	defer s.Stop()
func Start(parent context.Context, schedule Schedule, task Task, opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Scheduler{
		ctx:      ctx,
		cancel:   cancel,
		schedule: schedule,
		task:     task,
		opts:     o,
		done:     make(chan struct{}),
	}

	go s.loop()

	return s
}

// Stop cancels the schedule and waits for an in-flight tick to finish.
// Stop is idempotent.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed once the scheduler goroutine has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Runs reports how many ticks have executed.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

func (s *Scheduler) loop() {
	defer close(s.done)

	for {
		now := time.Now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.opts.logger.Warn("schedule has no next activation",
				slog.String("scheduler", s.opts.name),
			)
			return
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.run()
		}
	}
}

// run executes one tick, converting a panic into a logged error so the
// schedule keeps firing.
func (s *Scheduler) run() {
	defer func() {
		if r := recover(); r != nil {
			s.opts.logger.Error("scheduled task panicked",
				slog.String("scheduler", s.opts.name),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	s.runs.Add(1)
	s.task(s.ctx)
}
