package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidSessionID is returned when a session ID is not safe to use as
// a filename component.
var ErrInvalidSessionID = errors.New("invalid session id: contains path separator or traversal sequence")

// validateSessionID rejects IDs that could escape the store directory.
func validateSessionID(id string) error {
	if id == "" {
		return errors.New("session id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return ErrInvalidSessionID
	}
	return nil
}

// Store persists sessions as one JSON file per session ID in a directory.
//
// The store performs whole-file read-modify-write with no locking; the
// caller must ensure a single writer per session ID. Writes go through a
// temp file + rename so readers never observe a torn file.
type Store struct {
	dir string
}

// NewStore creates a session store rooted at dir, creating the directory
// if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (st *Store) Dir() string {
	return st.dir
}

func (st *Store) path(id string) string {
	return filepath.Join(st.dir, id+".json")
}

// Save serializes the full session, overwriting any existing record for
// the same session ID.
func (st *Store) Save(s *Session) error {
	if err := validateSessionID(s.SessionID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", s.SessionID, err)
	}

	path := st.path(s.SessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename session file: %w", err)
	}

	return nil
}

// Load reconstructs a session from storage. It returns (nil, nil) when no
// record exists for the ID, since callers routinely probe for sessions.
func (st *Store) Load(id string) (*Session, error) {
	if err := validateSessionID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(st.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", id, err)
	}

	return &s, nil
}

// ListIDs enumerates all persisted session IDs in lexical order.
func (st *Store) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)

	return ids, nil
}

// UnreviewedIDs returns the IDs of sessions that still contain unreviewed
// results, in ListIDs order.
func (st *Store) UnreviewedIDs() ([]string, error) {
	ids, err := st.ListIDs()
	if err != nil {
		return nil, err
	}

	var unreviewed []string
	for _, id := range ids {
		s, err := st.Load(id)
		if err != nil {
			return nil, err
		}
		if s != nil && s.HasUnreviewed() {
			unreviewed = append(unreviewed, id)
		}
	}

	return unreviewed, nil
}

// ResultUpdate is a partial update to one result's review fields. Nil
// fields are left untouched. A nil Reviewed forces the result to reviewed,
// matching the review workflow's sole mutation path; set it explicitly to
// override.
type ResultUpdate struct {
	ActualResponse  *string
	SimilarityScore *int
	Notes           *string
	Reviewed        *bool
}

// UpdateResult applies a partial update to the result with the given test
// ID, re-saving the whole session. It returns (false, nil) and leaves
// storage untouched when the session or result is not found. The operation
// is idempotent: applying the same update twice yields the same state.
func (st *Store) UpdateResult(sessionID, testID string, upd ResultUpdate) (bool, error) {
	s, err := st.Load(sessionID)
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}

	r := s.FindResult(testID)
	if r == nil {
		return false, nil
	}

	if upd.ActualResponse != nil {
		r.ActualResponse = upd.ActualResponse
	}
	if upd.SimilarityScore != nil {
		r.SimilarityScore = upd.SimilarityScore
	}
	if upd.Notes != nil {
		r.Notes = upd.Notes
	}
	if upd.Reviewed != nil {
		r.Reviewed = *upd.Reviewed
	} else {
		r.Reviewed = true
	}

	if err := st.Save(s); err != nil {
		return false, err
	}

	return true, nil
}
