// Package persona defines the persona and question schemas and renders
// them into generation prompts.
package persona

// Persona describes the individual whose behavior is being predicted.
// Every section other than ID and Name is optional; rendering tolerates
// any combination of absent sections.
type Persona struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Demographics map[string]string `yaml:"demographics,omitempty"`
	Personality  *Personality      `yaml:"personality,omitempty"`
	Behavior     *Behavior         `yaml:"behavior,omitempty"`
	// Notes is free-text context that does not fit the structured sections.
	Notes string `yaml:"behavioral_notes,omitempty"`
}

// Personality holds trait and value lists.
type Personality struct {
	Traits []string `yaml:"traits,omitempty"`
	Values []string `yaml:"values,omitempty"`
}

// Behavior holds observed habits and keyed preferences.
type Behavior struct {
	Habits      []string          `yaml:"habits,omitempty"`
	Preferences map[string]string `yaml:"preferences,omitempty"`
}

// Question is a single test question.
type Question struct {
	ID       string `yaml:"id"`
	Text     string `yaml:"question"`
	Type     string `yaml:"type,omitempty"`
	FollowUp string `yaml:"follow_up,omitempty"`
}

// FullText returns the question text with the follow-up line appended
// when one is present.
func (q Question) FullText() string {
	if q.FollowUp == "" {
		return q.Text
	}
	return q.Text + "\n\n" + q.FollowUp
}

// QuestionSet is an ordered collection of questions loaded from one file.
type QuestionSet struct {
	Name      string     `yaml:"name,omitempty"`
	Questions []Question `yaml:"questions"`
}
