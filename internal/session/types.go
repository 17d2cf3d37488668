// Package session defines the test session data model and its file-backed
// store. The store owns the canonical on-disk representation; loaded
// sessions are transient copies and must be saved back to become durable.
package session

import (
	"time"

	"github.com/veldtlabs/personatest/internal/config"
)

// Result is one question/answer unit within a session.
//
// Generation fields are fixed at creation. The review fields
// (ActualResponse, SimilarityScore, Notes, Reviewed) are mutable through
// Store.UpdateResult only. A SimilarityScore is only meaningful while
// Reviewed is true; unreviewed results are excluded from accuracy metrics
// even if a stale score is present.
type Result struct {
	// TestID is unique within a session: "<session_id>_<question_id>".
	TestID       string `json:"test_id"`
	PersonaID    string `json:"persona_id"`
	PersonaName  string `json:"persona_name"`
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	LLMResponse  string `json:"llm_response"`
	Model        string `json:"model"`
	// ModelConfig is the exact sampling config used for this result. It is
	// a snapshot, not a live reference: later preset changes never alter it.
	ModelConfig config.ModelConfig `json:"model_config"`
	Timestamp   time.Time          `json:"timestamp"`
	// GenerationTime is wall-clock latency in seconds.
	GenerationTime  *float64 `json:"generation_time"`
	TokensGenerated *int     `json:"tokens_generated"`

	ActualResponse  *string `json:"actual_response"`
	SimilarityScore *int    `json:"similarity_score"`
	Notes           *string `json:"notes"`
	Reviewed        bool    `json:"reviewed"`
}

// Session is one complete run of a persona against a question set with a
// single model and config. The result list is fixed after the run; only
// per-result review fields change afterwards.
type Session struct {
	SessionID    string             `json:"session_id"`
	PersonaFile  string             `json:"persona_file"`
	QuestionFile string             `json:"question_file"`
	Model        string             `json:"model"`
	ModelConfig  config.ModelConfig `json:"model_config"`
	Timestamp    time.Time          `json:"timestamp"`
	// Completed is set once every question in the run has been attempted.
	// It is independent of review state.
	Completed bool     `json:"completed"`
	Results   []Result `json:"results"`
}

// ReviewedCount returns the number of reviewed results.
func (s *Session) ReviewedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Reviewed {
			n++
		}
	}
	return n
}

// HasUnreviewed reports whether any result still awaits review.
func (s *Session) HasUnreviewed() bool {
	for _, r := range s.Results {
		if !r.Reviewed {
			return true
		}
	}
	return false
}

// FindResult returns a pointer to the result with the given test ID, or
// nil when no such result exists.
func (s *Session) FindResult(testID string) *Result {
	for i := range s.Results {
		if s.Results[i].TestID == testID {
			return &s.Results[i]
		}
	}
	return nil
}
