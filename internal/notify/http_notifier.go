package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default configuration values.
const (
	DefaultTimeout = 10 * time.Second
)

// HTTPNotifier triggers workflows over the provider's HTTP API.
type HTTPNotifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// HTTPOption configures HTTPNotifier.
type HTTPOption func(*HTTPNotifier)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(n *HTTPNotifier) {
		n.client = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(n *HTTPNotifier) {
		n.client.Timeout = d
	}
}

// NewHTTPNotifier creates a notifier posting to the provider endpoint.
func NewHTTPNotifier(endpoint, apiKey string, opts ...HTTPOption) *HTTPNotifier {
	n := &HTTPNotifier{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Compile-time interface check.
var _ Notifier = (*HTTPNotifier)(nil)

// TriggerWorkflow posts the workflow trigger. Empty recipient sets are
// skipped without a request.
func (n *HTTPNotifier) TriggerWorkflow(ctx context.Context, wf *Workflow) error {
	if len(wf.UserIDs) == 0 {
		return nil
	}

	body, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("marshal workflow: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("trigger workflow %s: %w", wf.Key, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("trigger workflow %s: provider returned %s", wf.Key, resp.Status)
	}
	return nil
}
