package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/veldtlabs/personatest/internal/config"
)

func newModelsCmd() *cobra.Command {
	var (
		pullName    string
		recommended bool
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models available on the Ollama server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := newOllamaClientFromFlags(cmd, 0)

			if !client.CheckConnection(ctx) {
				return fmt.Errorf("cannot connect to Ollama; make sure it is running (ollama serve)")
			}

			if pullName != "" {
				fmt.Printf("Pulling %s... (this may take several minutes)\n", pullName)
				ok, err := client.PullModel(ctx, pullName)
				if err != nil {
					return fmt.Errorf("failed to pull model %s: %w", pullName, err)
				}
				if !ok {
					return fmt.Errorf("failed to pull model %s", pullName)
				}
				fmt.Println("Model downloaded.")
				return nil
			}

			available, err := client.ListModels(ctx)
			if err != nil {
				return err
			}

			if len(available) == 0 {
				fmt.Println("No models installed. Pull one with: personatest models --pull llama3:8b")
			} else {
				fmt.Println("Installed models:")
				for _, m := range available {
					fmt.Printf("  %s\n", m)
				}
			}

			if recommended {
				fmt.Println("\nRecommended for persona testing:")
				for _, m := range config.RecommendedModels {
					marker := " "
					if slices.Contains(available, m) {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, m)
				}
				fmt.Println("\n(* = installed)")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&pullName, "pull", "", "Pull a model by name instead of listing")
	cmd.Flags().BoolVar(&recommended, "recommended", false, "Also show recommended models")

	return cmd
}
