package persona

import (
	"fmt"
	"sort"
	"strings"
)

// BuildPrompt renders a persona and question into a system/user prompt
// pair. The rendering is deterministic: map-backed sections are emitted in
// sorted key order. Absent sections are simply omitted. The user prompt is
// the question text verbatim.
func BuildPrompt(p *Persona, questionText string) (systemPrompt, userPrompt string) {
	var b strings.Builder

	b.WriteString("You are role-playing as a specific person with the following characteristics:\n\n")
	fmt.Fprintf(&b, "Name: %s\n\n", displayName(p))

	if len(p.Demographics) > 0 {
		b.WriteString("Demographics:\n")
		for _, key := range sortedKeys(p.Demographics) {
			fmt.Fprintf(&b, "  - %s: %s\n", titleKey(key), p.Demographics[key])
		}
		b.WriteString("\n")
	}

	if p.Personality != nil {
		b.WriteString("Personality:\n")
		if len(p.Personality.Traits) > 0 {
			fmt.Fprintf(&b, "  - Traits: %s\n", strings.Join(p.Personality.Traits, ", "))
		}
		if len(p.Personality.Values) > 0 {
			fmt.Fprintf(&b, "  - Values: %s\n", strings.Join(p.Personality.Values, ", "))
		}
		b.WriteString("\n")
	}

	if p.Behavior != nil {
		b.WriteString("Behavior:\n")
		if len(p.Behavior.Habits) > 0 {
			b.WriteString("  - Habits:\n")
			for _, h := range p.Behavior.Habits {
				fmt.Fprintf(&b, "    * %s\n", h)
			}
		}
		for _, key := range sortedKeys(p.Behavior.Preferences) {
			fmt.Fprintf(&b, "  - %s: %s\n", titleKey(key), p.Behavior.Preferences[key])
		}
		b.WriteString("\n")
	}

	if p.Notes != "" {
		b.WriteString("Additional Context:\n")
		b.WriteString(p.Notes)
		b.WriteString("\n\n")
	}

	b.WriteString("Respond to the following question as this person would, considering their\n")
	b.WriteString("values, preferences, and decision-making style. Be authentic and specific.\n")
	b.WriteString("Explain your reasoning naturally as this person would.")

	return b.String(), questionText
}

func displayName(p *Persona) string {
	if p.Name != "" {
		return p.Name
	}
	return "Unknown"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// titleKey converts a snake_case key into a human-readable label,
// e.g. "income_bracket" -> "Income Bracket".
func titleKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
