package submission

import (
	"context"

	"github.com/zoquest/backend/internal/model"
	"github.com/zoquest/backend/pkg/xcontext"
)

// Client is the device-side entry point: it tries an immediate delivery and
// falls back to the durable queue on any failure.
type Client struct {
	deliverer Deliverer
	queue     *Queue
	scheduler *Scheduler
}

func NewClient(store Store, deliverer Deliverer, onAbandon AbandonFunc) (*Client, error) {
	queue, err := NewQueue(store, deliverer, nil, onAbandon)
	if err != nil {
		return nil, err
	}

	return &Client{
		deliverer: deliverer,
		queue:     queue,
		scheduler: NewScheduler(queue, DefaultDrainInterval),
	}, nil
}

func (c *Client) Start(ctx context.Context) {
	c.scheduler.Start(ctx)
}

func (c *Client) Stop() {
	c.scheduler.Stop()
}

func (c *Client) Queue() *Queue {
	return c.queue
}

// Submit attempts an immediate delivery. On failure the attempt is enqueued
// for retry and Submit still returns nil; only a storage failure of the queue
// itself is returned. The idempotency key is fixed before the first attempt
// so a retry after a lost success response cannot double-credit.
func (c *Client) Submit(ctx context.Context, attempt model.CompleteQuestRequest) (bool, error) {
	if attempt.IdempotencyKey == "" {
		attempt.IdempotencyKey = c.queue.NewIdempotencyKey()
	}

	err := c.deliverer.Deliver(ctx, &attempt)
	if err == nil {
		return true, nil
	}

	xcontext.Logger(ctx).Warnf("Cannot deliver attempt, queueing it: %v", err)
	if _, err := c.queue.Enqueue(ctx, attempt); err != nil {
		return false, err
	}

	c.scheduler.Drain()
	return false, nil
}
