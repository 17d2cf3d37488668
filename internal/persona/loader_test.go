package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPersona(t *testing.T) {
	path := writeFile(t, "persona.yaml", `
id: tech_enthusiast
name: Jordan
demographics:
  age: "34"
  occupation: software engineer
personality:
  traits: [curious, analytical]
  values: [efficiency]
behavior:
  habits:
    - reads reviews before buying
  preferences:
    budget: mid-range
behavioral_notes: Early adopter of gadgets.
`)

	p, err := LoadPersona(path)
	require.NoError(t, err)

	assert.Equal(t, "tech_enthusiast", p.ID)
	assert.Equal(t, "Jordan", p.Name)
	assert.Equal(t, "34", p.Demographics["age"])
	require.NotNil(t, p.Personality)
	assert.Equal(t, []string{"curious", "analytical"}, p.Personality.Traits)
	require.NotNil(t, p.Behavior)
	assert.Equal(t, "mid-range", p.Behavior.Preferences["budget"])
	assert.Equal(t, "Early adopter of gadgets.", p.Notes)
}

func TestLoadPersonaMinimal(t *testing.T) {
	path := writeFile(t, "persona.yaml", "id: minimal\nname: Min\n")

	p, err := LoadPersona(path)
	require.NoError(t, err)
	assert.Nil(t, p.Personality)
	assert.Nil(t, p.Behavior)
	assert.Empty(t, p.Demographics)
}

func TestLoadPersonaMissingFile(t *testing.T) {
	_, err := LoadPersona(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadPersonaInvalidYAML(t *testing.T) {
	path := writeFile(t, "persona.yaml", "id: [unclosed\n")
	_, err := LoadPersona(path)
	assert.Error(t, err)
}

func TestLoadPersonaMissingID(t *testing.T) {
	path := writeFile(t, "persona.yaml", "name: No ID\n")
	_, err := LoadPersona(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestLoadQuestions(t *testing.T) {
	path := writeFile(t, "questions.yaml", `
name: product choices
questions:
  - id: q1
    question: Which phone would you buy?
    type: purchase
    follow_up: Why that one?
  - id: q2
    question: Do you preorder new releases?
`)

	qs, err := LoadQuestions(path)
	require.NoError(t, err)
	require.Len(t, qs.Questions, 2)

	q := qs.Questions[0]
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, "purchase", q.Type)
	assert.Equal(t, "Which phone would you buy?\n\nWhy that one?", q.FullText())

	// No follow-up: full text is the question verbatim.
	assert.Equal(t, "Do you preorder new releases?", qs.Questions[1].FullText())
	assert.Empty(t, qs.Questions[1].Type)
}

func TestLoadQuestionsEmpty(t *testing.T) {
	path := writeFile(t, "questions.yaml", "name: empty\n")
	_, err := LoadQuestions(path)
	assert.Error(t, err)
}

func TestLoadQuestionsMissingID(t *testing.T) {
	path := writeFile(t, "questions.yaml", "questions:\n  - question: no id here\n")
	_, err := LoadQuestions(path)
	assert.Error(t, err)
}
