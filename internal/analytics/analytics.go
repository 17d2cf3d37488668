// Package analytics aggregates reviewed session results into summary
// reports, compares sessions, and exports results to CSV and JSON.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/veldtlabs/personatest/internal/session"
)

// ErrNoReviews is returned when a session has no reviewed results to
// aggregate. Callers must branch on it rather than treat it as a report
// full of zeros.
var ErrNoReviews = errors.New("no reviewed results to analyze")

// ErrSessionNotFound is returned when the requested session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Report is the full analytics output for one session.
type Report struct {
	SessionID         string             `json:"session_id"`
	Model             string             `json:"model"`
	Persona           string             `json:"persona"`
	Timestamp         time.Time          `json:"timestamp"`
	TotalQuestions    int                `json:"total_questions"`
	ReviewedQuestions int                `json:"reviewed_questions"`
	Overall           OverallMetrics     `json:"overall_metrics"`
	ByQuestionType    map[string]float64 `json:"by_question_type"`
	Performance       PerformanceMetrics `json:"performance_metrics"`
	Breakdown         []QuestionScore    `json:"question_breakdown"`
}

// OverallMetrics aggregates similarity scores over reviewed results only.
type OverallMetrics struct {
	AverageSimilarity  float64 `json:"average_similarity"`
	MinSimilarity      float64 `json:"min_similarity"`
	MaxSimilarity      float64 `json:"max_similarity"`
	AccuracyPercentage float64 `json:"accuracy_percentage"`
}

// PerformanceMetrics aggregates generation timing and token counts over
// all results with recorded values, independent of review state.
type PerformanceMetrics struct {
	AvgGenerationTimeSeconds float64 `json:"avg_generation_time_seconds"`
	AvgTokensGenerated       float64 `json:"avg_tokens_generated"`
}

// QuestionScore is one reviewed question's entry in the report breakdown.
type QuestionScore struct {
	QuestionID      string  `json:"question_id"`
	Type            string  `json:"type"`
	SimilarityScore int     `json:"similarity_score"`
	Notes           *string `json:"notes"`
}

// Engine computes analytics over sessions in a store.
type Engine struct {
	store *session.Store
}

// NewEngine creates an analytics engine.
func NewEngine(store *session.Store) *Engine {
	return &Engine{store: store}
}

// unknownType is the sentinel group for results without a question type.
const unknownType = "unknown"

// GenerateReport builds the analytics report for a session. Accuracy
// metrics cover only results that are reviewed and carry a score; a stale
// score on an unreviewed result is ignored. Returns ErrNoReviews when no
// such results exist.
func (e *Engine) GenerateReport(sessionID string) (*Report, error) {
	sess, err := e.store.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	var reviewed []session.Result
	for _, r := range sess.Results {
		if r.Reviewed && r.SimilarityScore != nil {
			reviewed = append(reviewed, r)
		}
	}

	if len(reviewed) == 0 {
		return nil, fmt.Errorf("%w: session %s", ErrNoReviews, sessionID)
	}

	scores := make([]float64, len(reviewed))
	for i, r := range reviewed {
		scores[i] = float64(*r.SimilarityScore)
	}

	avg := mean(scores)
	report := &Report{
		SessionID:         sessionID,
		Model:             sess.Model,
		Persona:           sess.PersonaFile,
		Timestamp:         sess.Timestamp,
		TotalQuestions:    len(sess.Results),
		ReviewedQuestions: len(reviewed),
		Overall: OverallMetrics{
			AverageSimilarity:  avg,
			MinSimilarity:      minOf(scores),
			MaxSimilarity:      maxOf(scores),
			AccuracyPercentage: avg / 5.0 * 100,
		},
		ByQuestionType: groupByType(reviewed),
		Performance:    performanceMetrics(sess.Results),
	}

	for _, r := range reviewed {
		report.Breakdown = append(report.Breakdown, QuestionScore{
			QuestionID:      r.QuestionID,
			Type:            typeOrUnknown(r.QuestionType),
			SimilarityScore: *r.SimilarityScore,
			Notes:           r.Notes,
		})
	}

	return report, nil
}

// SummaryRow is one session's entry in a cross-session comparison.
type SummaryRow struct {
	SessionID         string  `json:"session_id"`
	Model             string  `json:"model"`
	AverageSimilarity float64 `json:"avg_similarity"`
	AccuracyPct       float64 `json:"accuracy_pct"`
	AvgTimeSeconds    float64 `json:"avg_time"`
	Reviewed          int     `json:"reviewed"`
	Total             int     `json:"total"`
}

// Comparison summarizes multiple sessions side by side.
type Comparison struct {
	Rows []SummaryRow `json:"comparisons"`
	// BestAccuracy is the row with the highest average similarity;
	// Fastest the row with the lowest average generation time. Ties keep
	// the first row in input order. Both are nil when Rows is empty.
	BestAccuracy *SummaryRow `json:"best_accuracy"`
	Fastest      *SummaryRow `json:"fastest"`
}

// Compare builds one summary row per session that has at least one
// reviewed result. Sessions without reviews and session IDs with no
// stored session are dropped, not reported as zero.
func (e *Engine) Compare(sessionIDs []string) (*Comparison, error) {
	cmp := &Comparison{}

	for _, id := range sessionIDs {
		report, err := e.GenerateReport(id)
		if err != nil {
			if errors.Is(err, ErrNoReviews) || errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}

		cmp.Rows = append(cmp.Rows, SummaryRow{
			SessionID:         report.SessionID,
			Model:             report.Model,
			AverageSimilarity: report.Overall.AverageSimilarity,
			AccuracyPct:       report.Overall.AccuracyPercentage,
			AvgTimeSeconds:    report.Performance.AvgGenerationTimeSeconds,
			Reviewed:          report.ReviewedQuestions,
			Total:             report.TotalQuestions,
		})
	}

	for i := range cmp.Rows {
		row := cmp.Rows[i]
		if cmp.BestAccuracy == nil || row.AverageSimilarity > cmp.BestAccuracy.AverageSimilarity {
			best := row
			cmp.BestAccuracy = &best
		}
		if cmp.Fastest == nil || row.AvgTimeSeconds < cmp.Fastest.AvgTimeSeconds {
			fastest := row
			cmp.Fastest = &fastest
		}
	}

	return cmp, nil
}

func groupByType(reviewed []session.Result) map[string]float64 {
	byType := make(map[string][]float64)
	for _, r := range reviewed {
		key := typeOrUnknown(r.QuestionType)
		byType[key] = append(byType[key], float64(*r.SimilarityScore))
	}

	averages := make(map[string]float64, len(byType))
	for key, scores := range byType {
		averages[key] = mean(scores)
	}
	return averages
}

// performanceMetrics averages over every result with a recorded value,
// reviewed or not.
func performanceMetrics(results []session.Result) PerformanceMetrics {
	var times, tokens []float64
	for _, r := range results {
		if r.GenerationTime != nil {
			times = append(times, *r.GenerationTime)
		}
		if r.TokensGenerated != nil {
			tokens = append(tokens, float64(*r.TokensGenerated))
		}
	}

	var m PerformanceMetrics
	if len(times) > 0 {
		m.AvgGenerationTimeSeconds = mean(times)
	}
	if len(tokens) > 0 {
		m.AvgTokensGenerated = mean(tokens)
	}
	return m
}

func typeOrUnknown(t string) string {
	if t == "" {
		return unknownType
	}
	return t
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func minOf(vals []float64) float64 {
	m := math.Inf(1)
	for _, v := range vals {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		m = math.Max(m, v)
	}
	return m
}
