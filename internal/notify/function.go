package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turfspot/turf-booking-backend/internal/models"
)

// FunctionNotifier POSTs the payload to the send-booking-email function
type FunctionNotifier struct {
	url    string
	client *http.Client
}

// NewFunctionNotifier creates a notifier for the function endpoint
func NewFunctionNotifier(url string, timeout time.Duration) *FunctionNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FunctionNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify implements Notifier
func (n *FunctionNotifier) Notify(ctx context.Context, req models.BookingEmailRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call email function: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read email function response: %w", err)
	}

	var result models.FunctionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("email function returned status %d: %s", resp.StatusCode, string(body))
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		return fmt.Errorf("email function failed with status %d: %s", resp.StatusCode, result.Error)
	}

	return nil
}
