package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veldtlabs/personatest/internal/review"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review [session-id]",
		Short: "Review generated answers interactively",
		Long: `Walk through the unreviewed answers of a session, enter the real
person's answer for each question, and score how similar the generated
answer is (1-5).

Without a session ID the oldest session with unreviewed answers is
picked automatically. Each judgment is saved immediately, so an
interrupted review resumes where it left off.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFromFlags(cmd)
			if err != nil {
				return err
			}

			rv := review.NewReviewer(store, review.NewTerminalPrompter(os.Stdout))

			var sessionID string
			if len(args) == 1 {
				sessionID = args[0]
			} else {
				sessionID, err = rv.SelectSession()
				if err != nil {
					return err
				}
				if sessionID == "" {
					fmt.Println("No sessions with unreviewed answers.")
					return nil
				}
				fmt.Printf("Reviewing session %s\n\n", sessionID)
			}

			reviewed, err := rv.ReviewSession(sessionID)
			if err != nil {
				if reviewed > 0 {
					fmt.Printf("\nSaved %d judgment(s) before stopping.\n", reviewed)
				}
				return err
			}

			if reviewed == 0 {
				fmt.Println("All answers in this session are already reviewed.")
				return nil
			}

			fmt.Printf("\nReview complete: %d answer(s) judged.\n", reviewed)
			fmt.Printf("See the report with: personatest analyze %s\n", sessionID)
			return nil
		},
	}

	return cmd
}
