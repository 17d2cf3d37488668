package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientDefaults(t *testing.T) {
	client := NewHTTPClient()
	assert.Equal(t, "http://localhost:11434", client.baseURL)
	assert.Equal(t, 2*time.Minute, client.timeout)
	assert.Equal(t, 10*time.Minute, client.pullTimeout)
}

func TestNewHTTPClientWithOptions(t *testing.T) {
	client := NewHTTPClient(
		WithBaseURL("http://example.com:11434"),
		WithTimeout(30*time.Second),
		WithPullTimeout(time.Minute),
	)
	assert.Equal(t, "http://example.com:11434", client.baseURL)
	assert.Equal(t, 30*time.Second, client.timeout)
	assert.Equal(t, time.Minute, client.pullTimeout)
}

func TestGenerate(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":   "I would pick the cheaper option.",
			"eval_count": 42,
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Model:   "llama3:8b",
		Prompt:  "Which laptop would you buy?",
		System:  "You are role-playing as a specific person.",
		Options: map[string]any{"temperature": 0.7},
	})
	require.NoError(t, err)

	assert.Equal(t, "I would pick the cheaper option.", resp.Text)
	require.NotNil(t, resp.TokensGenerated)
	assert.Equal(t, 42, *resp.TokensGenerated)
	assert.Greater(t, resp.GenerationTime, time.Duration(0))

	assert.Equal(t, "llama3:8b", gotPayload["model"])
	assert.Equal(t, false, gotPayload["stream"])
	assert.Equal(t, "You are role-playing as a specific person.", gotPayload["system"])
}

func TestGenerateOmitsMissingTokenCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "ok"})
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	resp, err := client.Generate(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})
	require.NoError(t, err)
	assert.Nil(t, resp.TokensGenerated)
}

func TestGenerateConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed server: connection refused.

	client := NewHTTPClient(WithBaseURL(srv.URL))
	_, err := client.Generate(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)

	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestGenerateServerErrorIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	_, err := client.Generate(context.Background(), GenerateRequest{Model: "m", Prompt: "p"})

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "generate", connErr.Op)
}

func TestCheckConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"models": []any{}})
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	assert.True(t, client.CheckConnection(context.Background()))
}

func TestCheckConnectionDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	assert.False(t, client.CheckConnection(context.Background()))
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "llama3:8b"},
				{"name": "mistral:7b"},
			},
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3:8b", "mistral:7b"}, names)
}

func TestListModelsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	_, err := client.ListModels(context.Background())

	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestPullModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pull", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "llama3:8b", payload["name"])
		assert.Equal(t, false, payload["stream"])

		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	ok, err := client.PullModel(context.Background(), "llama3:8b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPullModelFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(WithBaseURL(srv.URL))
	ok, err := client.PullModel(context.Background(), "no-such-model")
	assert.False(t, ok)
	assert.Error(t, err)
}
