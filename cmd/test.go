package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/veldtlabs/personatest/internal/config"
	"github.com/veldtlabs/personatest/internal/ollama"
	"github.com/veldtlabs/personatest/internal/runner"
)

func newTestCmd() *cobra.Command {
	var (
		personaFile  string
		questionFile string
		model        string
		preset       string
		temperature  float64
		topP         float64
		maxTokens    int
		questionIDs  []string
		timeout      time.Duration
		autoPull     bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run persona predictions against a model",
		Long: `Send every question in a question set to the model, conditioned on the
persona, and persist the generated answers as a new session.

The session is saved incrementally, so an aborted run keeps the answers
generated so far.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, ok := config.Preset(preset)
			if !ok {
				return fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.PresetNames(), ", "))
			}
			if cmd.Flags().Changed("temperature") {
				cfg.Temperature = temperature
			}
			if cmd.Flags().Changed("top-p") {
				cfg.TopP = topP
			}
			if cmd.Flags().Changed("max-tokens") {
				cfg.NumPredict = maxTokens
			}

			client := newOllamaClientFromFlags(cmd, timeout)

			if !client.CheckConnection(ctx) {
				return fmt.Errorf("cannot connect to Ollama; make sure it is running (ollama serve)")
			}

			if err := ensureModel(ctx, client, model, autoPull); err != nil {
				return err
			}

			store, err := newStoreFromFlags(cmd)
			if err != nil {
				return err
			}

			r := runner.NewRunner(client, store)
			r.SetProgressFunc(func(idx, total int) {
				fmt.Printf("\r  Processing question %d/%d...", idx, total)
			})

			fmt.Printf("Persona: %s\n", personaFile)
			fmt.Printf("Questions: %s\n", questionFile)
			fmt.Printf("Model: %s (preset: %s, temp=%.1f, top_p=%.2f)\n\n", model, preset, cfg.Temperature, cfg.TopP)

			sess, err := r.RunTest(ctx, personaFile, questionFile, model, cfg, questionIDs)
			if err != nil {
				return err
			}

			fmt.Printf("\n\nTest complete.\n")
			fmt.Printf("Session ID: %s\n", sess.SessionID)
			fmt.Printf("Questions tested: %d\n", len(sess.Results))
			fmt.Printf("\nReview results with: personatest review %s\n", sess.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&personaFile, "persona", "p", "", "Path to persona YAML file")
	cmd.Flags().StringVarP(&questionFile, "questions", "q", "", "Path to questions YAML file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Ollama model name (e.g. llama3:8b)")
	cmd.Flags().StringVarP(&preset, "preset", "c", "balanced", "Sampling preset: "+strings.Join(config.PresetNames(), ", "))
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "Override temperature")
	cmd.Flags().Float64Var(&topP, "top-p", 0, "Override top_p")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Override max output tokens")
	cmd.Flags().StringArrayVar(&questionIDs, "question", nil, "Restrict the run to specific question IDs (repeatable)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-question generation timeout (default 2m)")
	cmd.Flags().BoolVar(&autoPull, "pull", false, "Pull the model if it is not available locally")

	_ = cmd.MarkFlagRequired("persona")
	_ = cmd.MarkFlagRequired("questions")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

// ensureModel verifies the model exists on the server, pulling it when
// allowed.
func ensureModel(ctx context.Context, client ollama.Client, model string, autoPull bool) error {
	available, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(available, model) {
		return nil
	}

	if !autoPull {
		return fmt.Errorf("model %q not found locally (available: %s); re-run with --pull to download it",
			model, strings.Join(available, ", "))
	}

	fmt.Printf("Pulling %s... (this may take several minutes)\n", model)
	ok, err := client.PullModel(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to pull model %s: %w", model, err)
	}
	if !ok {
		return fmt.Errorf("failed to pull model %s", model)
	}
	fmt.Println("Model downloaded.")
	return nil
}
