package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zoquest/backend/internal/model"
	"golang.org/x/sync/errgroup"
)

type fakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

type mockDeliverer struct {
	mutex       sync.Mutex
	attempts    int
	DeliverFunc func(ctx context.Context, attempt *model.CompleteQuestRequest) error
}

func (m *mockDeliverer) Deliver(ctx context.Context, attempt *model.CompleteQuestRequest) error {
	m.mutex.Lock()
	m.attempts++
	m.mutex.Unlock()

	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, attempt)
	}

	return nil
}

func (m *mockDeliverer) Attempts() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.attempts
}

func TestQueue_EnqueueAndDrain(t *testing.T) {
	ctx := context.Background()
	deliverer := &mockDeliverer{}

	queue, err := NewQueue(NewMemoryStore(), deliverer, newFakeClock(), nil)
	require.NoError(t, err)

	item, err := queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)

	// Enqueue fills in a missing idempotency key so the retry can never be
	// double-credited on the server.
	require.NotEmpty(t, item.Payload.IdempotencyKey)

	n, err := queue.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, queue.Drain(ctx))
	require.Equal(t, 1, deliverer.Attempts())

	n, err = queue.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestQueue_ExponentialBackoff(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	deliverer := &mockDeliverer{
		DeliverFunc: func(context.Context, *model.CompleteQuestRequest) error {
			return errors.New("connection refused")
		},
	}

	var abandoned []Item
	queue, err := NewQueue(NewMemoryStore(), deliverer, clock, func(item Item, err error) {
		require.ErrorIs(t, err, ErrAbandoned)
		abandoned = append(abandoned, item)
	})
	require.NoError(t, err)

	_, err = queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)

	// First failure schedules the retry one second out.
	require.NoError(t, queue.Drain(ctx))
	require.Equal(t, 1, deliverer.Attempts())

	// Not due yet, a drain must not retry early.
	require.NoError(t, queue.Drain(ctx))
	require.Equal(t, 1, deliverer.Attempts())

	// The delay doubles after every failure: 1s, 2s, 4s, 8s.
	for _, delay := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second} {
		clock.Advance(delay - time.Millisecond)
		require.NoError(t, queue.Drain(ctx))
		prev := deliverer.Attempts()

		clock.Advance(time.Millisecond)
		require.NoError(t, queue.Drain(ctx))
		require.Equal(t, prev+1, deliverer.Attempts())
	}

	// The fifth failure abandons the submission instead of retrying forever.
	require.Equal(t, 5, deliverer.Attempts())
	require.Len(t, abandoned, 1)
	require.Equal(t, "game-1111", abandoned[0].Payload.QuestID)

	n, err := queue.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestQueue_DrainSkipsCorruptedRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	deliverer := &mockDeliverer{}

	queue, err := NewQueue(store, deliverer, newFakeClock(), nil)
	require.NoError(t, err)

	// A record that no longer decodes must not block the items behind it.
	// The low id makes the drain visit it first.
	require.NoError(t, store.Set("0", []byte("not json")))

	_, err = queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)

	require.NoError(t, queue.Drain(ctx))
	require.Equal(t, 1, deliverer.Attempts())

	// The corrupted record is dropped, not revisited on every drain.
	n, err := queue.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestQueue_AbandonCallbackReentersQueue(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	deliverer := &mockDeliverer{
		DeliverFunc: func(context.Context, *model.CompleteQuestRequest) error {
			return errors.New("connection refused")
		},
	}

	// The callback reads the queue it was invoked from, so it must run
	// without the queue lock held.
	var queue *Queue
	called := false
	onAbandon := func(item Item, err error) {
		n, lenErr := queue.Len()
		require.NoError(t, lenErr)
		require.Equal(t, 0, n)
		called = true
	}

	queue, err := NewQueue(NewMemoryStore(), deliverer, clock, onAbandon)
	require.NoError(t, err)

	_, err = queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)

	for i := 0; i < MaxRetries; i++ {
		require.NoError(t, queue.Drain(ctx))
		clock.Advance(time.Minute)
	}

	require.Equal(t, MaxRetries, deliverer.Attempts())
	require.True(t, called)
}

func TestQueue_SuccessAfterFailures(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	failures := 2
	deliverer := &mockDeliverer{}
	deliverer.DeliverFunc = func(context.Context, *model.CompleteQuestRequest) error {
		if deliverer.Attempts() <= failures {
			return errors.New("connection refused")
		}
		return nil
	}

	queue, err := NewQueue(NewMemoryStore(), deliverer, clock, func(Item, error) {
		t.Fatal("must not abandon a recoverable submission")
	})
	require.NoError(t, err)

	_, err = queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, queue.Drain(ctx))
		clock.Advance(10 * time.Second)
	}

	require.Equal(t, 3, deliverer.Attempts())

	n, err := queue.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestQueue_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	offline := &mockDeliverer{
		DeliverFunc: func(context.Context, *model.CompleteQuestRequest) error {
			return errors.New("no network")
		},
	}

	queue, err := NewQueue(store, offline, newFakeClock(), nil)
	require.NoError(t, err)

	item, err := queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)

	// A new queue over the same store picks the submission up, key intact.
	online := &mockDeliverer{}
	var delivered *model.CompleteQuestRequest
	online.DeliverFunc = func(ctx context.Context, attempt *model.CompleteQuestRequest) error {
		delivered = attempt
		return nil
	}

	restarted, err := NewQueue(store, online, newFakeClock(), nil)
	require.NoError(t, err)
	require.NoError(t, restarted.Drain(ctx))

	require.NotNil(t, delivered)
	require.Equal(t, "game-1111", delivered.QuestID)
	require.Equal(t, item.Payload.IdempotencyKey, delivered.IdempotencyKey)

	n, err := restarted.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestQueue_OverlappingDrains(t *testing.T) {
	ctx := context.Background()
	deliverer := &mockDeliverer{}

	queue, err := NewQueue(NewMemoryStore(), deliverer, newFakeClock(), nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
		require.NoError(t, err)
	}

	// Overlapping drains may deliver an item more than once but must never
	// corrupt the store; the server's idempotency absorbs the duplicates.
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < 4; i++ {
		eg.Go(func() error { return queue.Drain(egCtx) })
	}
	require.NoError(t, eg.Wait())

	require.GreaterOrEqual(t, deliverer.Attempts(), 10)

	n, err := queue.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
