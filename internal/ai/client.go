package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// OllamaClient is a minimal HTTP client for a local Ollama runtime's chat
// endpoint. The client is bound to a single model at construction time.
type OllamaClient struct {
	httpClient       *http.Client
	host             string
	model            string
	temperature      float64
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// NewOllamaClient creates a client targeting the given host
// (e.g., http://127.0.0.1:11434) and model.
func NewOllamaClient(host, model string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *OllamaClient {
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	if httpTimeout <= 0 {
		httpTimeout = 120 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 2
	}
	if baseDelay <= 0 {
		baseDelay = 200 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 1 * time.Second
	}
	return &OllamaClient{
		httpClient:       &http.Client{Timeout: httpTimeout},
		host:             host,
		model:            model,
		temperature:      0.7,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
	}
}

// Structures aligned with Ollama /api/chat (non-streaming)
type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}
type ollamaChatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Complete sends a single-turn prompt and returns the assistant's reply.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.model == "" {
		return "", errors.New("model cannot be empty")
	}
	if prompt == "" {
		return "", errors.New("prompt cannot be empty")
	}

	oreq := ollamaChatRequest{
		Model:    c.model,
		Messages: []ollamaChatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  map[string]any{},
	}
	if c.temperature > 0 {
		oreq.Options["temperature"] = c.temperature
	}
	payload, err := json.Marshal(oreq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.host + "/api/chat"
	maxAttempts := c.retryMaxAttempts
	backoff := c.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if isRetryableNetErr(err) && attempt < maxAttempts {
				time.Sleep(c.capDelay(withJitter(backoff)))
				backoff *= 2
				continue
			}
			return "", &UnreachableError{Host: c.host, Err: err}
		}
		var content string
		func() {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = decodeAPIError(resp)
				return
			}
			var oresp ollamaChatResponse
			if err := json.NewDecoder(resp.Body).Decode(&oresp); err != nil {
				lastErr = fmt.Errorf("decode response: %w", err)
				return
			}
			content = oresp.Message.Content
			lastErr = nil
		}()
		if lastErr == nil {
			return content, nil
		}
		if attempt < maxAttempts && retryable(lastErr) {
			time.Sleep(c.capDelay(withJitter(backoff)))
			backoff *= 2
			continue
		}
		break
	}
	return "", lastErr
}

func (c *OllamaClient) capDelay(d time.Duration) time.Duration {
	if c.retryMaxDelay > 0 && d > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return d
}

// decodeAPIError maps a non-2xx response to a typed error.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	var raw map[string]any
	_ = json.Unmarshal(body, &raw)
	apiErr := &APIError{StatusCode: resp.StatusCode, Raw: raw}
	if msg, ok := raw["error"].(string); ok {
		apiErr.Message = msg
	}
	if msg, ok := raw["message"].(string); ok && apiErr.Message == "" {
		apiErr.Message = msg
	}
	if resp.StatusCode == http.StatusNotFound {
		// Likely missing model
		return &ModelNotFoundError{APIError: apiErr}
	}
	if resp.StatusCode >= 500 {
		return &ServerError{APIError: apiErr}
	}
	if resp.StatusCode == http.StatusBadRequest {
		return &BadRequestError{APIError: apiErr}
	}
	return apiErr
}

// retryable reports whether an error class is worth another attempt.
// Server errors may be transient; 4xx responses will not change on retry.
func retryable(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	return false
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 200 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
