package analytics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// questionTextLimit is the prefix length kept for question text in CSV
// exports; longer text is truncated with an ellipsis marker.
const questionTextLimit = 100

// csvHeader is the fixed CSV column order.
var csvHeader = []string{
	"question_id",
	"question_type",
	"question_text",
	"llm_response",
	"actual_response",
	"similarity_score",
	"notes",
	"reviewed",
	"generation_time",
	"tokens_generated",
}

// ExportCSV writes one row per result (reviewed or not) to path. Missing
// optional fields render as empty cells.
func (e *Engine) ExportCSV(sessionID, path string) error {
	sess, err := e.store.Load(sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range sess.Results {
		row := []string{
			r.QuestionID,
			r.QuestionType,
			truncate(r.QuestionText, questionTextLimit),
			r.LLMResponse,
			strOrEmpty(r.ActualResponse),
			intOrEmpty(r.SimilarityScore),
			strOrEmpty(r.Notes),
			strconv.FormatBool(r.Reviewed),
			floatOrEmpty(r.GenerationTime),
			intOrEmpty(r.TokensGenerated),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// ExportReportJSON writes the full GenerateReport output to path.
func (e *Engine) ExportReportJSON(sessionID, path string) error {
	report, err := e.GenerateReport(sessionID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}

// truncate keeps the first limit characters of s and appends an ellipsis
// marker when anything was cut. The limit counts runes, not bytes, so a
// multi-byte character is never split.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
