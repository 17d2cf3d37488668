package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullPersona() *Persona {
	return &Persona{
		ID:   "tech_enthusiast",
		Name: "Jordan",
		Demographics: map[string]string{
			"age":            "34",
			"occupation":     "software engineer",
			"income_bracket": "middle",
		},
		Personality: &Personality{
			Traits: []string{"curious", "analytical"},
			Values: []string{"efficiency", "quality"},
		},
		Behavior: &Behavior{
			Habits:      []string{"reads reviews before buying"},
			Preferences: map[string]string{"budget": "mid-range"},
		},
		Notes: "Early adopter of gadgets.",
	}
}

func TestBuildPromptRendersAllSections(t *testing.T) {
	system, user := BuildPrompt(fullPersona(), "Which laptop would you buy?")

	assert.Contains(t, system, "Name: Jordan")
	assert.Contains(t, system, "Demographics:")
	assert.Contains(t, system, "Income Bracket: middle")
	assert.Contains(t, system, "Traits: curious, analytical")
	assert.Contains(t, system, "Values: efficiency, quality")
	assert.Contains(t, system, "reads reviews before buying")
	assert.Contains(t, system, "Budget: mid-range")
	assert.Contains(t, system, "Early adopter of gadgets.")
	assert.Contains(t, system, "Respond to the following question as this person would")

	assert.Equal(t, "Which laptop would you buy?", user)
}

func TestBuildPromptDeterministic(t *testing.T) {
	p := fullPersona()
	first, _ := BuildPrompt(p, "q")
	for i := 0; i < 20; i++ {
		again, _ := BuildPrompt(p, "q")
		assert.Equal(t, first, again)
	}
}

func TestBuildPromptMinimalPersona(t *testing.T) {
	p := &Persona{ID: "min", Name: "Min"}
	system, user := BuildPrompt(p, "What would you do?")

	assert.Contains(t, system, "Name: Min")
	assert.NotContains(t, system, "Demographics:")
	assert.NotContains(t, system, "Personality:")
	assert.NotContains(t, system, "Behavior:")
	assert.NotContains(t, system, "Additional Context:")
	assert.Equal(t, "What would you do?", user)
}

func TestBuildPromptMissingName(t *testing.T) {
	system, _ := BuildPrompt(&Persona{ID: "anon"}, "q")
	assert.Contains(t, system, "Name: Unknown")
}

func TestBuildPromptDemographicsSorted(t *testing.T) {
	p := &Persona{
		ID:   "p",
		Name: "P",
		Demographics: map[string]string{
			"zone": "west",
			"age":  "40",
		},
	}
	system, _ := BuildPrompt(p, "q")
	assert.Less(t, strings.Index(system, "Age:"), strings.Index(system, "Zone:"))
}

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "Income Bracket", titleKey("income_bracket"))
	assert.Equal(t, "Age", titleKey("age"))
}
