package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zoquest/backend/config"
	"github.com/zoquest/backend/pkg/errorx"
	"github.com/zoquest/backend/pkg/logger"
)

type greetRequest struct {
	Name string `json:"name"`
}

type greetResponse struct {
	Greeting string `json:"greeting"`
}

func newTestRouter() *Router {
	return New(nil, config.Default(), logger.NewLogger(logger.ERROR))
}

func TestRouter_GET(t *testing.T) {
	r := newTestRouter()
	GET(r, "/greet", func(ctx context.Context, req *greetRequest) (*greetResponse, error) {
		if req.Name == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
		}

		return &greetResponse{Greeting: fmt.Sprintf("hello %s", req.Name)}, nil
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/greet?name=zo")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body greetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "hello zo", body.Greeting)

	// Validation errors map to a 400 with the message in the body.
	resp, err = http.Get(server.URL + "/greet")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	require.Equal(t, "Not allow empty name", errBody["error"])
}

func TestRouter_POST(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *greetRequest) (*greetResponse, error) {
		return &greetResponse{Greeting: req.Name}, nil
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/echo", "application/json",
		bytes.NewReader([]byte(`{"name":"zo"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body greetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "zo", body.Greeting)

	// The wrong method is rejected before the handler runs.
	resp, err = http.Get(server.URL + "/echo")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ErrorDetail(t *testing.T) {
	next := time.Date(2023, 6, 2, 12, 0, 0, 0, time.UTC)

	r := newTestRouter()
	POST(r, "/cooldown", func(ctx context.Context, req *greetRequest) (*greetResponse, error) {
		return nil, errorx.New(errorx.TooManyRequests, "Quest is on cooldown").
			WithDetail("next_available_at", next)
	})

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/cooldown", "application/json",
		bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Detail fields are merged into the error body next to the message.
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "Quest is on cooldown", body["error"])
	require.Equal(t, next.Format(time.RFC3339), body["next_available_at"])
}
