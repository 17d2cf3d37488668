package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var rootCmd = &cobra.Command{
	Use:   "personatest",
	Short: "Behavioral prediction testing for personas against local LLMs",
	Long: `personatest runs persona-conditioned questions against a locally hosted
Ollama model, records the generated answers, and collects human ground-truth
answers with 1-5 similarity scores. Reviewed sessions can be aggregated into
accuracy reports, compared across models, and exported to CSV/JSON.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logFile, _ := cmd.Flags().GetString("log-file")
		setupLogging(verbose, logFile)
	},
}

var (
	buildCommit = "unknown"
	buildDate   = "unknown"
)

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// SetBuildInfo sets the commit and build date for the version command.
func SetBuildInfo(commit, date string) {
	buildCommit = commit
	buildDate = date
}

// setupLogging configures the default slog logger. Without a log file,
// logs go to stderr as text; with one, JSON records go to a rotating file.
func setupLogging(verbose bool, logFile string) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if logFile != "" {
		var w io.Writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "personatest version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newStatusCmd())

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("log-file", "", "Write JSON logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().String("endpoint", "http://localhost:11434", "Ollama API endpoint URL")
	rootCmd.PersistentFlags().String("results-dir", "results", "Directory for persisted test sessions")
}
