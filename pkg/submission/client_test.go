package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoquest/backend/internal/model"
)

func TestClient_SubmitImmediate(t *testing.T) {
	var delivered *model.CompleteQuestRequest
	deliverer := &mockDeliverer{}
	deliverer.DeliverFunc = func(ctx context.Context, attempt *model.CompleteQuestRequest) error {
		delivered = attempt
		return nil
	}

	client, err := NewClient(NewMemoryStore(), deliverer, nil)
	require.NoError(t, err)

	ok, err := client.Submit(context.Background(), model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)
	require.True(t, ok)

	// The key is minted before the first delivery, so a later retry of a lost
	// response dedups against this attempt.
	require.NotNil(t, delivered)
	require.NotEmpty(t, delivered.IdempotencyKey)

	n, err := client.Queue().Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestClient_SubmitFallsBackToQueue(t *testing.T) {
	deliverer := &mockDeliverer{
		DeliverFunc: func(context.Context, *model.CompleteQuestRequest) error {
			return errors.New("no network")
		},
	}

	client, err := NewClient(NewMemoryStore(), deliverer, nil)
	require.NoError(t, err)

	ok, err := client.Submit(context.Background(), model.CompleteQuestRequest{QuestID: "game-1111"})
	require.NoError(t, err)
	require.False(t, ok)

	n, err := client.Queue().Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
