// Package submission is the client-resident reliability layer of quest
// completion. Attempts that fail to reach the completion endpoint are kept in
// a durable queue and retried with exponential backoff until delivered or
// abandoned, giving an at-least-once delivery guarantee.
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/zoquest/backend/internal/model"
	"github.com/zoquest/backend/pkg/xcontext"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	MaxRetries   = 5
	InitialDelay = time.Second
)

var (
	ErrNotFound = errors.New("submission not found")

	// ErrAbandoned is the terminal outcome of a submission that exhausted its
	// retries. It must be surfaced to the user as "progress not saved".
	ErrAbandoned = errors.New("submission abandoned after too many retries")
)

// Item is one persisted queued submission.
type Item struct {
	ID          string                     `json:"id"`
	Payload     model.CompleteQuestRequest `json:"data"`
	EnqueuedAt  time.Time                  `json:"enqueued_at"`
	RetryCount  int                        `json:"retry_count"`
	NextRetryAt time.Time                  `json:"next_retry_at"`
}

// Deliverer attempts one delivery of an attempt to the completion endpoint.
// A nil return means delivered (2xx); any error is a retryable failure,
// cooldown rejections included, since the cooldown eventually expires.
type Deliverer interface {
	Deliver(ctx context.Context, attempt *model.CompleteQuestRequest) error
}

// AbandonFunc is invoked when an item is dropped after MaxRetries failures.
type AbandonFunc func(item Item, err error)

type Queue struct {
	store     Store
	deliverer Deliverer
	clock     Clock
	onAbandon AbandonFunc
	node      *snowflake.Node

	// mutex guards every read-modify-write of the persisted list so
	// overlapping drains cannot corrupt it.
	mutex sync.Mutex
}

func NewQueue(store Store, deliverer Deliverer, clock Clock, onAbandon AbandonFunc) (*Queue, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	if clock == nil {
		clock = realClock{}
	}

	return &Queue{
		store:     store,
		deliverer: deliverer,
		clock:     clock,
		onAbandon: onAbandon,
		node:      node,
	}, nil
}

// NewIdempotencyKey mints a key for an attempt. Fixing the key before the
// first delivery lets a retry of a lost response dedup against the original.
func (q *Queue) NewIdempotencyKey() string {
	return q.node.Generate().String()
}

// Enqueue persists a failed attempt for later delivery. The item is eligible
// for the next drain immediately. If the attempt carries no idempotency key,
// one is assigned so server-side dedup keeps retries from double-crediting.
func (q *Queue) Enqueue(ctx context.Context, attempt model.CompleteQuestRequest) (Item, error) {
	if attempt.IdempotencyKey == "" {
		attempt.IdempotencyKey = q.node.Generate().String()
	}

	now := q.clock.Now()
	item := Item{
		ID:          q.node.Generate().String(),
		Payload:     attempt,
		EnqueuedAt:  now,
		RetryCount:  0,
		NextRetryAt: now,
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	if err := q.persist(item); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Drain attempts delivery of every due item. Safe to call concurrently; a
// duplicate delivery of the same item is absorbed by the server's idempotency
// handling.
func (q *Queue) Drain(ctx context.Context) error {
	q.mutex.Lock()
	records, err := q.store.List()
	q.mutex.Unlock()
	if err != nil {
		return err
	}

	// Snowflake ids sort in enqueue order, so older submissions go first.
	ids := maps.Keys(records)
	slices.Sort(ids)

	now := q.clock.Now()
	for _, id := range ids {
		var item Item
		if err := json.Unmarshal(records[id], &item); err != nil {
			// A corrupted record can never deliver; drop it instead of
			// starving every item behind it.
			xcontext.Logger(ctx).Errorf("Cannot decode submission %s, dropping it: %v", id, err)
			if err := q.remove(id); err != nil {
				return err
			}
			continue
		}

		if item.NextRetryAt.After(now) {
			continue
		}

		deliverErr := q.deliverer.Deliver(ctx, &item.Payload)
		if err := q.settle(item.ID, deliverErr); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of persisted submissions.
func (q *Queue) Len() (int, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	records, err := q.store.List()
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// settle applies the delivery outcome to the persisted item. The abandon
// callback fires after the lock is released so it can call back into the
// queue without deadlocking.
func (q *Queue) settle(id string, deliverErr error) error {
	abandoned, err := q.applyOutcome(id, deliverErr)
	if err != nil {
		return err
	}

	if abandoned != nil && q.onAbandon != nil {
		q.onAbandon(*abandoned, ErrAbandoned)
	}

	return nil
}

// applyOutcome mutates the persisted item in one critical section and reports
// whether the item was abandoned. The item is re-read because a concurrent
// drain may have settled it already.
func (q *Queue) applyOutcome(id string, deliverErr error) (*Item, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	data, err := q.store.Get(id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}

	if deliverErr == nil {
		return nil, q.store.Remove(id)
	}

	delay := InitialDelay << item.RetryCount
	item.RetryCount++
	item.NextRetryAt = q.clock.Now().Add(delay)

	if item.RetryCount >= MaxRetries {
		if err := q.store.Remove(id); err != nil {
			return nil, err
		}

		return &item, nil
	}

	return nil, q.persist(item)
}

func (q *Queue) remove(id string) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return q.store.Remove(id)
}

func (q *Queue) persist(item Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return q.store.Set(item.ID, data)
}
