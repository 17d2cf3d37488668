package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show connection and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			endpoint, _ := cmd.Flags().GetString("endpoint")
			client := newOllamaClientFromFlags(cmd, 0)

			fmt.Printf("Ollama endpoint: %s\n", endpoint)
			if client.CheckConnection(ctx) {
				models, err := client.ListModels(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Connection: ok (%d model(s) installed)\n", len(models))
			} else {
				fmt.Println("Connection: unreachable (is Ollama running?)")
			}

			store, err := newStoreFromFlags(cmd)
			if err != nil {
				return err
			}

			ids, err := store.ListIDs()
			if err != nil {
				return err
			}
			unreviewed, err := store.UnreviewedIDs()
			if err != nil {
				return err
			}

			resultsDir, _ := cmd.Flags().GetString("results-dir")
			fmt.Printf("\nResults directory: %s\n", resultsDir)
			fmt.Printf("Sessions: %d\n", len(ids))
			fmt.Printf("Awaiting review: %d\n", len(unreviewed))

			if len(unreviewed) > 0 {
				fmt.Printf("\nStart reviewing with: personatest review %s\n", unreviewed[0])
			}
			return nil
		},
	}

	return cmd
}
