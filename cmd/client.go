package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/veldtlabs/personatest/internal/ollama"
	"github.com/veldtlabs/personatest/internal/session"
)

// newOllamaClientFromFlags creates an Ollama client from the persistent
// endpoint flag plus an optional per-command generation timeout.
func newOllamaClientFromFlags(cmd *cobra.Command, timeout time.Duration) ollama.Client {
	endpoint, _ := cmd.Flags().GetString("endpoint")

	opts := []ollama.Option{ollama.WithBaseURL(endpoint)}
	if timeout > 0 {
		opts = append(opts, ollama.WithTimeout(timeout))
	}
	return ollama.NewHTTPClient(opts...)
}

// newStoreFromFlags opens the session store at the persistent results
// directory flag.
func newStoreFromFlags(cmd *cobra.Command) (*session.Store, error) {
	dir, _ := cmd.Flags().GetString("results-dir")
	return session.NewStore(dir)
}
