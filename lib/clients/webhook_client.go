package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookClientInterface posts a JSON payload to the configured webhook
type WebhookClientInterface interface {
	PostJSON(ctx context.Context, payload interface{}) error
}

var _ WebhookClientInterface = (*WebhookClient)(nil)

// WebhookClient posts JSON documents to a single URL
type WebhookClient struct {
	url        string
	httpClient *http.Client
}

// NewWebhookClient creates a client for url bounded by timeout
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PostJSON sends payload as the request body. Any non-2xx status is an error carrying a body snippet.
func (client *WebhookClient) PostJSON(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, client.httpClient.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, client.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<12))
		return fmt.Errorf("webhook returned status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	return nil
}
