// Package review drives the human review of test sessions: it walks the
// pending results of a session, collects a judgment for each, and writes
// every judgment back through the store immediately.
package review

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/veldtlabs/personatest/internal/session"
)

// ErrInvalidScore is returned when a similarity score is outside 1..5.
var ErrInvalidScore = errors.New("similarity score must be between 1 and 5")

// ErrSessionNotFound is returned when the requested session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Judgment is one human review of a generated answer.
type Judgment struct {
	// ActualResponse is the ground-truth answer from the real person.
	ActualResponse string
	// Score rates similarity between generated and actual answer, 1 to 5.
	Score int
	// Notes is optional free text.
	Notes string
}

// ValidScore reports whether s is one of the five allowed score values.
func ValidScore(s int) bool {
	return s >= 1 && s <= 5
}

// Prompter supplies one judgment per pending result. Implementations are
// the human-input collaborators (terminal UI, test fakes).
type Prompter interface {
	// Judge collects a judgment for the given result. index and total
	// describe the result's position within the session for display.
	Judge(r session.Result, index, total int) (Judgment, error)
}

// Reviewer iterates the pending results of a session and persists
// judgments one at a time.
type Reviewer struct {
	store    *session.Store
	prompter Prompter
}

// NewReviewer creates a reviewer.
func NewReviewer(store *session.Store, prompter Prompter) *Reviewer {
	return &Reviewer{store: store, prompter: prompter}
}

// SelectSession returns the first session with unreviewed results in store
// enumeration order, or "" when every session is fully reviewed.
func (rv *Reviewer) SelectSession() (string, error) {
	ids, err := rv.store.UnreviewedIDs()
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// ReviewSession reviews every pending result of the session in stored
// order, skipping results that are already reviewed. Each judgment is
// written back immediately, so an interrupted review keeps everything
// saved so far and a re-run resumes at the first pending result. It
// returns the number of results reviewed in this invocation.
func (rv *Reviewer) ReviewSession(sessionID string) (int, error) {
	sess, err := rv.store.Load(sessionID)
	if err != nil {
		return 0, err
	}
	if sess == nil {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	reviewed := 0
	total := len(sess.Results)

	for i, r := range sess.Results {
		if r.Reviewed {
			continue
		}

		judgment, err := rv.prompter.Judge(r, i+1, total)
		if err != nil {
			return reviewed, err
		}

		if !ValidScore(judgment.Score) {
			return reviewed, fmt.Errorf("%w: got %d", ErrInvalidScore, judgment.Score)
		}

		upd := session.ResultUpdate{
			ActualResponse:  &judgment.ActualResponse,
			SimilarityScore: &judgment.Score,
		}
		if judgment.Notes != "" {
			upd.Notes = &judgment.Notes
		}

		ok, err := rv.store.UpdateResult(sessionID, r.TestID, upd)
		if err != nil {
			return reviewed, err
		}
		if !ok {
			return reviewed, fmt.Errorf("result %s disappeared during review", r.TestID)
		}

		reviewed++
		slog.Debug("result reviewed",
			"session_id", sessionID,
			"test_id", r.TestID,
			"score", judgment.Score,
		)
	}

	return reviewed, nil
}
