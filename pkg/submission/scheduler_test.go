package submission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zoquest/backend/internal/model"
)

func TestScheduler_DrainsOnInterval(t *testing.T) {
	ctx := context.Background()
	deliverer := &mockDeliverer{}

	queue, err := NewQueue(NewMemoryStore(), deliverer, nil, nil)
	require.NoError(t, err)

	_, err = queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)

	scheduler := NewScheduler(queue, 10*time.Millisecond)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		n, err := queue.Len()
		return err == nil && n == 0
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_OnDemandDrain(t *testing.T) {
	ctx := context.Background()
	deliverer := &mockDeliverer{}

	queue, err := NewQueue(NewMemoryStore(), deliverer, nil, nil)
	require.NoError(t, err)

	// A long interval keeps the ticker out of the picture; only the explicit
	// trigger can deliver the item.
	scheduler := NewScheduler(queue, time.Hour)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	_, err = queue.Enqueue(ctx, model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)

	scheduler.Drain()

	require.Eventually(t, func() bool {
		n, err := queue.Len()
		return err == nil && n == 0
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	queue, err := NewQueue(NewMemoryStore(), &mockDeliverer{}, nil, nil)
	require.NoError(t, err)

	scheduler := NewScheduler(queue, time.Hour)
	scheduler.Start(context.Background())
	scheduler.Stop()
	scheduler.Stop()
}
