// Package inference provides a generic client for HTTP model-inference
// backends. The gateway knows how to deliver a payload to a model endpoint
// and when to retry; it never interprets the shape of a successful response,
// which belongs to the per-facet normalizers.
package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultBaseURL is the public Hugging Face inference router.
const DefaultBaseURL = "https://router.huggingface.co/hf-inference/v1/models"

const (
	defaultMaxAttempts    = 4
	defaultStatusBackoff  = 1000 * time.Millisecond
	defaultNetworkBackoff = 600 * time.Millisecond
)

// StatusError reports a non-2xx response from a model backend. The body is
// carried along for diagnostics.
type StatusError struct {
	Model      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model %s request failed: status %d: %s", e.Model, e.StatusCode, e.Body)
}

// Transient reports whether the status indicates rate limiting or a model
// cold-start, both of which are worth retrying.
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusServiceUnavailable
}

// Config carries gateway settings. Zero values fall back to defaults.
type Config struct {
	// BaseURL is the inference host; model ids are appended path-escaped.
	BaseURL string
	// HTTPClient overrides the default 60s-timeout client.
	HTTPClient *http.Client
	// MaxAttempts bounds the total number of tries per call.
	MaxAttempts int
	// StatusBackoff is the per-attempt wait multiplier after 429/503.
	StatusBackoff time.Duration
	// NetworkBackoff is the per-attempt wait multiplier after transport errors.
	NetworkBackoff time.Duration
}

// Gateway is a retrying HTTP client for inference backends. Safe for
// concurrent use.
type Gateway struct {
	baseURL        string
	httpClient     *http.Client
	maxAttempts    int
	statusBackoff  time.Duration
	networkBackoff time.Duration
}

// New creates a Gateway, applying defaults for any zero config field.
func New(cfg Config) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.StatusBackoff <= 0 {
		cfg.StatusBackoff = defaultStatusBackoff
	}
	if cfg.NetworkBackoff <= 0 {
		cfg.NetworkBackoff = defaultNetworkBackoff
	}
	return &Gateway{
		baseURL:        cfg.BaseURL,
		httpClient:     cfg.HTTPClient,
		maxAttempts:    cfg.MaxAttempts,
		statusBackoff:  cfg.StatusBackoff,
		networkBackoff: cfg.NetworkBackoff,
	}
}

// Invoke POSTs payload to the model endpoint and returns the raw JSON
// response body. A string payload is sent verbatim; anything else is JSON
// encoded. contentType overrides the inferred Content-Type header when
// non-empty.
//
// Retry policy: 429 and 503 are retried with linearly increasing backoff,
// as are transport-level failures (with a shorter step). Any other non-2xx
// status fails immediately. At most MaxAttempts tries are made in total.
func (g *Gateway) Invoke(ctx context.Context, modelID string, payload any, contentType string) ([]byte, error) {
	body, inferredType, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for model %s: %w", modelID, err)
	}
	if contentType == "" {
		contentType = inferredType
	}
	endpoint := fmt.Sprintf("%s/%s", g.baseURL, url.PathEscape(modelID))

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		resp, err := g.post(ctx, endpoint, contentType, body)
		if err != nil {
			lastErr = err
			if attempt == g.maxAttempts {
				break
			}
			slog.Warn("Inference call failed, will retry.", "model", modelID, "attempt", attempt, "error", err)
			if err := sleep(ctx, g.networkBackoff*time.Duration(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response from model %s: %w", modelID, readErr)
			if attempt == g.maxAttempts {
				break
			}
			slog.Warn("Inference response read failed, will retry.", "model", modelID, "attempt", attempt, "error", readErr)
			if err := sleep(ctx, g.networkBackoff*time.Duration(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if !sonic.Valid(respBody) {
				return nil, fmt.Errorf("model %s returned invalid JSON", modelID)
			}
			return respBody, nil
		}

		statusErr := &StatusError{Model: modelID, StatusCode: resp.StatusCode, Body: string(respBody)}
		if !statusErr.Transient() {
			return nil, statusErr
		}
		lastErr = statusErr
		if attempt == g.maxAttempts {
			break
		}
		slog.Warn("Inference backend busy, will retry.", "model", modelID, "attempt", attempt, "status", resp.StatusCode)
		if err := sleep(ctx, g.statusBackoff*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("model %s failed after %d attempts: %w", modelID, g.maxAttempts, lastErr)
}

func (g *Gateway) post(ctx context.Context, endpoint, contentType string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	return g.httpClient.Do(req)
}

func encodePayload(payload any) (body []byte, contentType string, err error) {
	if s, ok := payload.(string); ok {
		return []byte(s), "text/plain", nil
	}
	body, err = sonic.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	return body, "application/json", nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
