package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// newRootCmd builds the full command tree. Tests build a fresh tree per run
// so flag values never leak between invocations.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flashcarding",
		Short: "Turn lecture notes into flashcards and quizzes",
		Long: "Flashcarding organizes lecture material into sets and lectures, extracts\n" +
			"term/explanation cards from it and lets you study them or take quizzes.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, nil)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/flashcarding/config.yaml)")
	pf.String("env-file", "", "Dotenv file to load (default .env when present)")
	pf.String("db", "", "Path to SQLite database file (overrides FLASHCARDING_DB)")
	pf.String("log-mode", "", "Log format: dev or prod")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("generator", "", "Card generator: local or remote")
	pf.String("generator-url", "", "Base URL of the remote generation service")

	root.AddCommand(
		newSetCmd(),
		newLectureCmd(),
		newCardCmd(),
		newIngestCmd(),
		newLearnCmd(),
		newEvalCmd(),
		newStudyCmd(),
		newQuizCmd(),
		newJobsCmd(),
		newHistoryCmd(),
		newExportCmd(),
		newImportCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
