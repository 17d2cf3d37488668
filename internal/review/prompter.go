package review

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/veldtlabs/personatest/internal/session"
)

// scoreLegend explains the 1..5 similarity scale to the reviewer.
var scoreLegend = []string{
	"1 = Completely different",
	"2 = Somewhat different",
	"3 = Neutral/Mixed",
	"4 = Quite similar",
	"5 = Very similar/accurate",
}

// TerminalPrompter collects judgments interactively on the terminal using
// a line editor, so long ground-truth answers can be corrected in place.
type TerminalPrompter struct {
	out io.Writer
}

// NewTerminalPrompter creates a prompter writing its display to out.
func NewTerminalPrompter(out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{out: out}
}

// Judge displays the question and generated answer, then collects the
// actual response (required), a 1..5 score (re-prompting on invalid
// input), and optional notes.
func (p *TerminalPrompter) Judge(r session.Result, index, total int) (Judgment, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintf(p.out, "\nQuestion %d/%d (%s)\n", index, total, r.QuestionType)
	fmt.Fprintf(p.out, "%s\n\n", r.QuestionText)
	fmt.Fprintf(p.out, "Model answer (%s):\n%s\n\n", r.Model, r.LLMResponse)

	fmt.Fprintln(p.out, "Enter the actual response from the real person:")
	actual, err := promptNonEmpty(line, "actual> ")
	if err != nil {
		return Judgment{}, err
	}

	fmt.Fprintln(p.out, "\nRate the similarity:")
	for _, l := range scoreLegend {
		fmt.Fprintf(p.out, "  %s\n", l)
	}

	score, err := promptScore(p.out, line)
	if err != nil {
		return Judgment{}, err
	}

	notes, err := line.Prompt("notes (optional)> ")
	if err != nil {
		return Judgment{}, fmt.Errorf("reading notes: %w", err)
	}

	return Judgment{
		ActualResponse: actual,
		Score:          score,
		Notes:          strings.TrimSpace(notes),
	}, nil
}

func promptNonEmpty(line *liner.State, prompt string) (string, error) {
	for {
		s, err := line.Prompt(prompt)
		if err != nil {
			return "", fmt.Errorf("reading response: %w", err)
		}
		s = strings.TrimSpace(s)
		if s != "" {
			return s, nil
		}
	}
}

func promptScore(out io.Writer, line *liner.State) (int, error) {
	for {
		s, err := line.Prompt("score [1-5]> ")
		if err != nil {
			return 0, fmt.Errorf("reading score: %w", err)
		}

		score, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || !ValidScore(score) {
			fmt.Fprintln(out, "Please enter a number between 1 and 5.")
			continue
		}
		return score, nil
	}
}
