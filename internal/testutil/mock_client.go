// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/veldtlabs/personatest/internal/ollama"
)

// MockGenerator is a configurable mock for ollama.Client used across test
// packages.
type MockGenerator struct {
	// Responses maps user prompts to canned responses.
	Responses map[string]string

	// DefaultResponse is returned when no matching key is found in Responses.
	DefaultResponse string

	// Tokens is reported as the generated token count when non-zero.
	Tokens int

	// Err, when set, is returned from every Generate call.
	Err error

	// Models is the list returned by ListModels.
	Models []string

	// Connected is the value returned by CheckConnection.
	Connected bool

	// Calls tracks the number of Generate invocations.
	Calls int

	// LastRequest stores the most recent GenerateRequest for inspection.
	LastRequest ollama.GenerateRequest
}

func (m *MockGenerator) Generate(_ context.Context, req ollama.GenerateRequest) (*ollama.GenerateResponse, error) {
	m.Calls++
	m.LastRequest = req

	if m.Err != nil {
		return nil, m.Err
	}

	text, ok := m.Responses[req.Prompt]
	if !ok {
		text = m.DefaultResponse
		if text == "" {
			text = "mock response"
		}
	}

	resp := &ollama.GenerateResponse{
		Text:           text,
		GenerationTime: 5 * time.Millisecond,
	}
	if m.Tokens > 0 {
		tokens := m.Tokens
		resp.TokensGenerated = &tokens
	}
	return resp, nil
}

func (m *MockGenerator) CheckConnection(_ context.Context) bool {
	return m.Connected
}

func (m *MockGenerator) ListModels(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Models, nil
}

func (m *MockGenerator) PullModel(_ context.Context, name string) (bool, error) {
	if m.Err != nil {
		return false, fmt.Errorf("pull %s: %w", name, m.Err)
	}
	return true, nil
}
