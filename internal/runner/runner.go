// Package runner orchestrates test sessions: it loads persona and
// question definitions, generates one answer per question, and persists
// the session through the store.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veldtlabs/personatest/internal/config"
	"github.com/veldtlabs/personatest/internal/ollama"
	"github.com/veldtlabs/personatest/internal/persona"
	"github.com/veldtlabs/personatest/internal/session"
)

// ProgressFunc is called to report progress during a test run.
type ProgressFunc func(questionIndex, totalQuestions int)

// Runner drives full test sessions against a generation client.
type Runner struct {
	client   ollama.Client
	store    *session.Store
	progress ProgressFunc
}

// NewRunner creates a test runner.
func NewRunner(client ollama.Client, store *session.Store) *Runner {
	return &Runner{
		client: client,
		store:  store,
	}
}

// SetProgressFunc sets the progress callback.
func (r *Runner) SetProgressFunc(fn ProgressFunc) {
	r.progress = fn
}

// RunTest runs a complete test session: every question in the set (or the
// filtered subset) is sent to the model in source order, strictly
// sequentially.
//
// The session is persisted after every generated result, so a failure
// after N of M questions leaves N durable results with completed=false.
// Generation and load errors propagate to the caller; there is no retry.
func (r *Runner) RunTest(ctx context.Context, personaFile, questionFile, model string, cfg config.ModelConfig, filter []string) (*session.Session, error) {
	p, err := persona.LoadPersona(personaFile)
	if err != nil {
		return nil, err
	}

	qs, err := persona.LoadQuestions(questionFile)
	if err != nil {
		return nil, err
	}

	questions := filterQuestions(qs.Questions, filter)

	// UTC, with the monotonic reading stripped, so a saved session loads
	// back equal to the one in memory.
	now := time.Now().UTC()
	sessionID := newSessionID(p.ID, model, now)

	sess := &session.Session{
		SessionID:    sessionID,
		PersonaFile:  personaFile,
		QuestionFile: questionFile,
		Model:        model,
		ModelConfig:  cfg,
		Timestamp:    now,
		Results:      make([]session.Result, 0, len(questions)),
	}

	slog.Info("starting test session",
		"session_id", sessionID,
		"persona", p.ID,
		"model", model,
		"questions", len(questions),
	)

	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if r.progress != nil {
			r.progress(i+1, len(questions))
		}

		result, err := r.runQuestion(ctx, p, q, model, cfg, sessionID)
		if err != nil {
			return nil, fmt.Errorf("question %s failed: %w", q.ID, err)
		}
		sess.Results = append(sess.Results, *result)

		// Each result is durable the moment it is generated.
		if err := r.store.Save(sess); err != nil {
			return nil, err
		}
	}

	sess.Completed = true
	if err := r.store.Save(sess); err != nil {
		return nil, err
	}

	slog.Info("test session complete",
		"session_id", sessionID,
		"results", len(sess.Results),
	)

	return sess, nil
}

func (r *Runner) runQuestion(ctx context.Context, p *persona.Persona, q persona.Question, model string, cfg config.ModelConfig, sessionID string) (*session.Result, error) {
	questionText := q.FullText()
	systemPrompt, userPrompt := persona.BuildPrompt(p, questionText)

	resp, err := r.client.Generate(ctx, ollama.GenerateRequest{
		Model:   model,
		Prompt:  userPrompt,
		System:  systemPrompt,
		Options: cfg.Options(),
	})
	if err != nil {
		return nil, err
	}

	genTime := resp.GenerationTime.Seconds()
	questionType := q.Type
	if questionType == "" {
		questionType = "unknown"
	}

	return &session.Result{
		TestID:          sessionID + "_" + q.ID,
		PersonaID:       p.ID,
		PersonaName:     p.Name,
		QuestionID:      q.ID,
		QuestionText:    questionText,
		QuestionType:    questionType,
		LLMResponse:     resp.Text,
		Model:           model,
		ModelConfig:     cfg,
		Timestamp:       time.Now().UTC(),
		GenerationTime:  &genTime,
		TokensGenerated: resp.TokensGenerated,
	}, nil
}

// filterQuestions restricts questions to the given IDs, preserving source
// order. Unmatched IDs are silently dropped. A nil or empty filter keeps
// everything.
func filterQuestions(questions []persona.Question, filter []string) []persona.Question {
	if len(filter) == 0 {
		return questions
	}

	wanted := make(map[string]bool, len(filter))
	for _, id := range filter {
		wanted[id] = true
	}

	var kept []persona.Question
	for _, q := range questions {
		if wanted[q.ID] {
			kept = append(kept, q)
		}
	}
	return kept
}

// newSessionID builds a filesystem-safe session ID that sorts lexically by
// creation time for a given persona and model. The short random suffix
// breaks same-second ties between runs.
func newSessionID(personaID, model string, ts time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s",
		personaID,
		sanitizeModelName(model),
		ts.Format("20060102-150405"),
		uuid.NewString()[:8],
	)
}

// sanitizeModelName replaces characters unsafe for filenames with
// underscores. Model tags routinely contain colons and slashes.
func sanitizeModelName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(name)
}
