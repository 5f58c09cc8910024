package submission

import (
	"context"
	"sync"
	"time"

	"github.com/zoquest/backend/pkg/xcontext"
)

const DefaultDrainInterval = 30 * time.Second

// Scheduler drains the queue once at start, then on a fixed interval, and on
// demand through Drain. Stop is idempotent.
type Scheduler struct {
	queue    *Queue
	interval time.Duration

	trigger chan struct{}
	stop    chan struct{}
	once    sync.Once
	wait    sync.WaitGroup
}

func NewScheduler(queue *Queue, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultDrainInterval
	}

	return &Scheduler{
		queue:    queue,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.wait.Add(1)
	go s.loop(ctx)
}

func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wait.Wait()
}

// Drain requests an immediate drain without waiting for the interval. The
// request is coalesced if one is already pending.
func (s *Scheduler) Drain() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wait.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Drain whatever survived the previous process before the first tick.
	s.drain(ctx)

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.drain(ctx)
		case <-s.trigger:
			s.drain(ctx)
		}
	}
}

func (s *Scheduler) drain(ctx context.Context) {
	if err := s.queue.Drain(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot drain submission queue: %v", err)
	}
}
