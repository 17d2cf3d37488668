package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldtlabs/personatest/internal/config"
)

func strPtr(s string) *string    { return &s }
func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleSession() *Session {
	cfg := config.Default()
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return &Session{
		SessionID:    "tech_enthusiast_llama3_8b_20250314-092653_a1b2c3d4",
		PersonaFile:  "personas/tech_enthusiast.yaml",
		QuestionFile: "questions/product_choices.yaml",
		Model:        "llama3:8b",
		ModelConfig:  cfg,
		Timestamp:    ts,
		Completed:    true,
		Results: []Result{
			{
				TestID:          "tech_enthusiast_llama3_8b_20250314-092653_a1b2c3d4_q1",
				PersonaID:       "tech_enthusiast",
				PersonaName:     "Jordan",
				QuestionID:      "q1",
				QuestionText:    "Which laptop would you buy?",
				QuestionType:    "purchase",
				LLMResponse:     "The cheaper one.",
				Model:           "llama3:8b",
				ModelConfig:     cfg,
				Timestamp:       ts,
				GenerationTime:  floatPtr(3.2),
				TokensGenerated: intPtr(120),
			},
			{
				TestID:       "tech_enthusiast_llama3_8b_20250314-092653_a1b2c3d4_q2",
				PersonaID:    "tech_enthusiast",
				PersonaName:  "Jordan",
				QuestionID:   "q2",
				QuestionText: "Do you preorder new releases?",
				QuestionType: "habit",
				LLMResponse:  "Rarely.",
				Model:        "llama3:8b",
				ModelConfig:  cfg,
				Timestamp:    ts,
			},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := newTestStore(t)
	s := sampleSession()

	require.NoError(t, st.Save(s))

	loaded, err := st.Load(s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s, loaded)
}

func TestLoadNotFoundReturnsNil(t *testing.T) {
	st := newTestStore(t)
	loaded, err := st.Load("no_such_session")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveRejectsUnsafeID(t *testing.T) {
	st := newTestStore(t)
	s := sampleSession()
	s.SessionID = "../escape"
	assert.Error(t, st.Save(s))
}

func TestListIDs(t *testing.T) {
	st := newTestStore(t)

	a := sampleSession()
	a.SessionID = "b_session"
	b := sampleSession()
	b.SessionID = "a_session"
	require.NoError(t, st.Save(a))
	require.NoError(t, st.Save(b))

	ids, err := st.ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a_session", "b_session"}, ids)
}

func TestUnreviewedIDs(t *testing.T) {
	st := newTestStore(t)

	pending := sampleSession()
	pending.SessionID = "pending_session"
	require.NoError(t, st.Save(pending))

	done := sampleSession()
	done.SessionID = "done_session"
	for i := range done.Results {
		done.Results[i].Reviewed = true
	}
	require.NoError(t, st.Save(done))

	ids, err := st.UnreviewedIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"pending_session"}, ids)
}

func TestUpdateResult(t *testing.T) {
	st := newTestStore(t)
	s := sampleSession()
	require.NoError(t, st.Save(s))

	ok, err := st.UpdateResult(s.SessionID, s.Results[0].TestID, ResultUpdate{
		ActualResponse:  strPtr("I bought the expensive one."),
		SimilarityScore: intPtr(2),
		Notes:           strPtr("missed the splurge pattern"),
	})
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := st.Load(s.SessionID)
	require.NoError(t, err)

	r := loaded.FindResult(s.Results[0].TestID)
	require.NotNil(t, r)
	assert.True(t, r.Reviewed)
	assert.Equal(t, "I bought the expensive one.", *r.ActualResponse)
	assert.Equal(t, 2, *r.SimilarityScore)
	assert.Equal(t, "missed the splurge pattern", *r.Notes)

	// The other result is untouched.
	other := loaded.FindResult(s.Results[1].TestID)
	require.NotNil(t, other)
	assert.False(t, other.Reviewed)
	assert.Nil(t, other.SimilarityScore)
}

func TestUpdateResultPartialLeavesOmittedFields(t *testing.T) {
	st := newTestStore(t)
	s := sampleSession()
	require.NoError(t, st.Save(s))

	testID := s.Results[0].TestID
	_, err := st.UpdateResult(s.SessionID, testID, ResultUpdate{
		ActualResponse:  strPtr("first pass"),
		SimilarityScore: intPtr(4),
	})
	require.NoError(t, err)

	// Second update touches only the notes.
	_, err = st.UpdateResult(s.SessionID, testID, ResultUpdate{
		Notes: strPtr("added later"),
	})
	require.NoError(t, err)

	loaded, _ := st.Load(s.SessionID)
	r := loaded.FindResult(testID)
	assert.Equal(t, "first pass", *r.ActualResponse)
	assert.Equal(t, 4, *r.SimilarityScore)
	assert.Equal(t, "added later", *r.Notes)
}

func TestUpdateResultIdempotent(t *testing.T) {
	st := newTestStore(t)
	s := sampleSession()
	require.NoError(t, st.Save(s))

	upd := ResultUpdate{
		ActualResponse:  strPtr("same"),
		SimilarityScore: intPtr(5),
		Notes:           strPtr("same notes"),
	}

	_, err := st.UpdateResult(s.SessionID, s.Results[0].TestID, upd)
	require.NoError(t, err)
	first, err := st.Load(s.SessionID)
	require.NoError(t, err)

	_, err = st.UpdateResult(s.SessionID, s.Results[0].TestID, upd)
	require.NoError(t, err)
	second, err := st.Load(s.SessionID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUpdateResultExplicitReviewedOverride(t *testing.T) {
	st := newTestStore(t)
	s := sampleSession()
	require.NoError(t, st.Save(s))

	reviewed := false
	_, err := st.UpdateResult(s.SessionID, s.Results[0].TestID, ResultUpdate{
		Notes:    strPtr("flagged for re-review"),
		Reviewed: &reviewed,
	})
	require.NoError(t, err)

	loaded, _ := st.Load(s.SessionID)
	assert.False(t, loaded.FindResult(s.Results[0].TestID).Reviewed)
}

func TestUpdateResultUnknownTestIDLeavesStorageUnchanged(t *testing.T) {
	st := newTestStore(t)
	s := sampleSession()
	require.NoError(t, st.Save(s))

	before, err := st.Load(s.SessionID)
	require.NoError(t, err)

	ok, err := st.UpdateResult(s.SessionID, "no_such_test", ResultUpdate{
		SimilarityScore: intPtr(5),
	})
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := st.Load(s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateResultUnknownSession(t *testing.T) {
	st := newTestStore(t)
	ok, err := st.UpdateResult("ghost", "ghost_q1", ResultUpdate{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionHelpers(t *testing.T) {
	s := sampleSession()
	assert.Equal(t, 0, s.ReviewedCount())
	assert.True(t, s.HasUnreviewed())

	s.Results[0].Reviewed = true
	assert.Equal(t, 1, s.ReviewedCount())
	assert.True(t, s.HasUnreviewed())

	s.Results[1].Reviewed = true
	assert.False(t, s.HasUnreviewed())

	assert.Nil(t, s.FindResult("missing"))
	assert.NotNil(t, s.FindResult(s.Results[1].TestID))
}
