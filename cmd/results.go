package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results <session-id>",
		Short: "Show the answers of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFromFlags(cmd)
			if err != nil {
				return err
			}

			sess, err := store.Load(args[0])
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("session %s not found", args[0])
			}

			fmt.Printf("Session: %s\n", sess.SessionID)
			fmt.Printf("Model: %s\n", sess.Model)
			fmt.Printf("Date: %s\n", sess.Timestamp.Format("2006-01-02 15:04:05"))
			fmt.Printf("Questions: %d (%d reviewed)\n", len(sess.Results), sess.ReviewedCount())

			scored := 0
			sum := 0

			for i, r := range sess.Results {
				fmt.Printf("\n--- Question %d/%d [%s] ---\n", i+1, len(sess.Results), r.QuestionType)
				fmt.Printf("Q: %s\n", r.QuestionText)
				fmt.Printf("A: %s\n", r.LLMResponse)

				if !r.Reviewed {
					fmt.Println("Review: pending")
					continue
				}

				if r.ActualResponse != nil {
					fmt.Printf("Actual: %s\n", *r.ActualResponse)
				}
				if r.SimilarityScore != nil {
					fmt.Printf("Score: %d/5\n", *r.SimilarityScore)
					scored++
					sum += *r.SimilarityScore
				}
				if r.Notes != nil && *r.Notes != "" {
					fmt.Printf("Notes: %s\n", *r.Notes)
				}
			}

			if scored > 0 {
				fmt.Printf("\nAverage similarity: %.2f/5\n", float64(sum)/float64(scored))
			}
			return nil
		},
	}

	return cmd
}
