package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zoquest/backend/internal/model"
)

// Endpoint delivers attempts to the server's completion endpoint over HTTP.
// Every call carries a bounded timeout; a timeout counts as a network failure
// and goes back on the retry path.
type Endpoint struct {
	baseURL string
	client  *http.Client
}

func NewEndpoint(baseURL string, timeout time.Duration) *Endpoint {
	return &Endpoint{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *Endpoint) Deliver(ctx context.Context, attempt *model.CompleteQuestRequest) error {
	body, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, e.baseURL+"/completeQuest", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// A cooldown rejection is retryable like any other failure: the cooldown
	// expires on its own, so the queue must not abandon the item early.
	return fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)
}
