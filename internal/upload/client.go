package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meltforce/pulsefit/internal/models"
)

// Client submits workouts to a PulseFit server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the PulseFit server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// statusError is a non-retryable rejection from the server.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("submit failed (status %d): %s", e.code, e.body)
}

// SubmitWorkout POSTs a workout and returns the scored record. Network
// errors and 5xx responses are retried up to 3 times with exponential
// backoff; 4xx responses fail immediately.
func (c *Client) SubmitWorkout(ctx context.Context, in models.WorkoutInput) (*models.WorkoutRecord, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling workout: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		rec, err := c.post(ctx, data)
		if err == nil {
			return rec, nil
		}
		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

func (c *Client) post(ctx context.Context, data []byte) (*models.WorkoutRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/v1/workouts", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(body))}
	}

	var rec models.WorkoutRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decoding workout: %w", err)
	}
	return &rec, nil
}
