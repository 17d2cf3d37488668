// Package ollama provides a client for a locally hosted Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client abstracts the Ollama generation API.
type Client interface {
	// Generate sends a one-shot generation request and returns the response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// CheckConnection reports whether the server is reachable. Best effort,
	// never returns an error.
	CheckConnection(ctx context.Context) bool
	// ListModels returns the names of models available on the server.
	ListModels(ctx context.Context) ([]string, error)
	// PullModel downloads a model. Long-running; success is best-effort.
	PullModel(ctx context.Context, name string) (bool, error)
}

// GenerateRequest is a single non-streaming generation request.
type GenerateRequest struct {
	Model   string
	Prompt  string
	System  string
	Options map[string]any
}

// GenerateResponse holds the generated text plus timing and token metadata.
type GenerateResponse struct {
	Text string
	// TokensGenerated is nil when the server does not report eval_count.
	TokensGenerated *int
	// GenerationTime is wall-clock latency measured around the HTTP call,
	// not a server-reported figure.
	GenerationTime time.Duration
}

// ConnectionError indicates the Ollama server was unreachable, timed out,
// or rejected the request. Callers distinguish it from application errors
// with errors.As.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ollama %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// HTTPClient implements Client against the native Ollama HTTP API.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	pullTimeout time.Duration
}

// NewHTTPClient creates a client for the Ollama API.
func NewHTTPClient(opts ...Option) *HTTPClient {
	cfg := &clientConfig{
		baseURL:     "http://localhost:11434",
		timeout:     2 * time.Minute,
		pullTimeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &HTTPClient{
		baseURL:     cfg.baseURL,
		httpClient:  httpClient,
		timeout:     cfg.timeout,
		pullTimeout: cfg.pullTimeout,
	}
}

// probeTimeout bounds the cheap liveness/listing calls.
const probeTimeout = 5 * time.Second

type generatePayload struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateReply struct {
	Response  string `json:"response"`
	EvalCount *int   `json:"eval_count,omitempty"`
}

// Generate sends a non-streaming generation request. Latency is measured
// wall-clock around the call.
func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	payload := generatePayload{
		Model:   req.Model,
		Prompt:  req.Prompt,
		System:  req.System,
		Stream:  false,
		Options: req.Options,
	}

	start := time.Now()
	body, err := c.post(ctx, "/api/generate", payload, c.timeout)
	if err != nil {
		return nil, &ConnectionError{Op: "generate", Err: err}
	}
	elapsed := time.Since(start)

	var reply generateReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse generate response: %w", err)
	}

	return &GenerateResponse{
		Text:            reply.Response,
		TokensGenerated: reply.EvalCount,
		GenerationTime:  elapsed,
	}, nil
}

// CheckConnection probes the tags endpoint. It reports false on any
// failure and never returns an error.
func (c *HTTPClient) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

type tagsReply struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of locally available models.
func (c *HTTPClient) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tags request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Op: "list models", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ConnectionError{Op: "list models", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var reply tagsReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to parse tags response: %w", err)
	}

	names := make([]string, 0, len(reply.Models))
	for _, m := range reply.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// PullModel downloads a model from the Ollama library. Downloads are large,
// so the call uses the long pull timeout.
func (c *HTTPClient) PullModel(ctx context.Context, name string) (bool, error) {
	payload := map[string]any{
		"name":   name,
		"stream": false,
	}

	_, err := c.post(ctx, "/api/pull", payload, c.pullTimeout)
	if err != nil {
		return false, &ConnectionError{Op: "pull model", Err: err}
	}
	return true, nil
}

// post sends a JSON POST and returns the response body. Non-2xx statuses
// are returned as errors.
func (c *HTTPClient) post(ctx context.Context, path string, payload any, timeout time.Duration) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
