// Package doorclient talks to the door controller bridge that fronts the
// physical room access hardware.
package doorclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Status is the controller's self-reported state.
type Status struct {
	Online      bool   `json:"online"`
	DoorCount   int    `json:"door_count"`
	FirmwareTag string `json:"firmware_tag,omitempty"`
}

// Client calls the door controller. With Skip set, calls return a canned
// online status so the system runs without hardware attached.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Status reports the controller state.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	if c.Skip {
		return &Status{Online: true, DoorCount: 1, FirmwareTag: "mock"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/status", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("door controller request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("door controller error %s: %s", resp.Status, string(bodyBytes))
	}

	var out Status
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// Health checks if the controller is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("door controller unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("door controller unhealthy: %s", resp.Status)
	}
	return nil
}
