package submission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zoquest/backend/internal/model"
)

func TestEndpoint_Deliver(t *testing.T) {
	var got model.CompleteQuestRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/completeQuest", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	endpoint := NewEndpoint(server.URL, time.Second)
	err := endpoint.Deliver(context.Background(), &model.CompleteQuestRequest{
		QuestID:        "game-1111",
		IdempotencyKey: "attempt-1",
	})
	require.NoError(t, err)
	require.Equal(t, "game-1111", got.QuestID)
	require.Equal(t, "attempt-1", got.IdempotencyKey)
}

func TestEndpoint_DeliverNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	endpoint := NewEndpoint(server.URL, time.Second)
	err := endpoint.Deliver(context.Background(), &model.CompleteQuestRequest{QuestID: "game-1111"})
	require.Error(t, err)
}

func TestEndpoint_DeliverNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	endpoint := NewEndpoint(server.URL, time.Second)
	err := endpoint.Deliver(context.Background(), &model.CompleteQuestRequest{QuestID: "game-1111"})
	require.Error(t, err)
}
