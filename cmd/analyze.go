package cmd

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/veldtlabs/personatest/internal/analytics"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		compareIDs []string
		csvPath    string
		jsonPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <session-id>",
		Short: "Generate an analytics report for a session",
		Long: `Aggregate the reviewed answers of a session into a report: average
similarity, accuracy percentage, per-question-type averages, and
generation performance. With --compare, show the sessions side by side
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFromFlags(cmd)
			if err != nil {
				return err
			}
			engine := analytics.NewEngine(store)

			if len(compareIDs) > 0 {
				return runCompare(cmd, engine, append([]string{args[0]}, compareIDs...))
			}

			report, err := engine.GenerateReport(args[0])
			if err != nil {
				if errors.Is(err, analytics.ErrNoReviews) {
					fmt.Println("No reviewed answers yet. Review the session first: personatest review", args[0])
					return nil
				}
				return err
			}

			printReport(report)

			// Both exports are attempted even if one fails.
			var exportErr error
			if csvPath != "" {
				if err := engine.ExportCSV(args[0], csvPath); err != nil {
					fmt.Printf("CSV export failed: %v\n", err)
					exportErr = err
				} else {
					fmt.Printf("Results exported to %s\n", csvPath)
				}
			}
			if jsonPath != "" {
				if err := engine.ExportReportJSON(args[0], jsonPath); err != nil {
					fmt.Printf("JSON export failed: %v\n", err)
					exportErr = err
				} else {
					fmt.Printf("Report exported to %s\n", jsonPath)
				}
			}
			return exportErr
		},
	}

	cmd.Flags().StringArrayVar(&compareIDs, "compare", nil, "Additional session IDs to compare against (repeatable)")
	cmd.Flags().StringVar(&csvPath, "export-csv", "", "Write per-question results to a CSV file")
	cmd.Flags().StringVar(&jsonPath, "export-json", "", "Write the report to a JSON file")

	return cmd
}

func printReport(r *analytics.Report) {
	fmt.Printf("Session: %s\n", r.SessionID)
	fmt.Printf("Model: %s\n", r.Model)
	fmt.Printf("Persona: %s\n", r.Persona)
	fmt.Printf("Date: %s\n\n", r.Timestamp.Format("2006-01-02 15:04:05"))

	fmt.Printf("Reviewed: %d/%d questions\n\n", r.ReviewedQuestions, r.TotalQuestions)

	fmt.Println("Overall:")
	fmt.Printf("  Average similarity: %.2f/5\n", r.Overall.AverageSimilarity)
	fmt.Printf("  Accuracy: %.1f%%\n", r.Overall.AccuracyPercentage)
	fmt.Printf("  Range: %.0f - %.0f\n\n", r.Overall.MinSimilarity, r.Overall.MaxSimilarity)

	if len(r.ByQuestionType) > 0 {
		fmt.Println("By question type:")
		types := make([]string, 0, len(r.ByQuestionType))
		for t := range r.ByQuestionType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-15s %.2f/5\n", t, r.ByQuestionType[t])
		}
		fmt.Println()
	}

	fmt.Println("Performance:")
	fmt.Printf("  Avg generation time: %.2fs\n", r.Performance.AvgGenerationTimeSeconds)
	fmt.Printf("  Avg tokens generated: %.0f\n", r.Performance.AvgTokensGenerated)
}

func runCompare(cmd *cobra.Command, engine *analytics.Engine, ids []string) error {
	cmp, err := engine.Compare(ids)
	if err != nil {
		return err
	}
	if len(cmp.Rows) == 0 {
		fmt.Println("None of the sessions have reviewed answers to compare.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION ID\tMODEL\tAVG SIMILARITY\tACCURACY\tAVG TIME\tREVIEWED")
	for _, row := range cmp.Rows {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.1f%%\t%.2fs\t%d/%d\n",
			row.SessionID, row.Model,
			row.AverageSimilarity, row.AccuracyPct, row.AvgTimeSeconds,
			row.Reviewed, row.Total,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if cmp.BestAccuracy != nil {
		fmt.Printf("\nMost accurate: %s (%.2f/5)\n", cmp.BestAccuracy.SessionID, cmp.BestAccuracy.AverageSimilarity)
	}
	if cmp.Fastest != nil {
		fmt.Printf("Fastest: %s (%.2fs avg)\n", cmp.Fastest.SessionID, cmp.Fastest.AvgTimeSeconds)
	}
	return nil
}
