package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPersona reads a persona definition from a YAML file.
func LoadPersona(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file %s: %w", path, err)
	}

	var p Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse persona file %s: %w", path, err)
	}

	if p.ID == "" {
		return nil, fmt.Errorf("persona file %s has no id", path)
	}

	return &p, nil
}

// LoadQuestions reads a question set from a YAML file.
func LoadQuestions(path string) (*QuestionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file %s: %w", path, err)
	}

	var qs QuestionSet
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("failed to parse question file %s: %w", path, err)
	}

	if len(qs.Questions) == 0 {
		return nil, fmt.Errorf("question file %s contains no questions", path)
	}

	for i, q := range qs.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d in %s has no id", i+1, path)
		}
	}

	return &qs, nil
}
