package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/screen"
	"github.com/abhisek/flashcarding/internal/screens/home"
)

func newStudyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study [set]",
		Short: "Flip through cards interactively",
		Long:  "Opens the card viewer for a set, or the set list when no set is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInteractive(cmd, nil)
			}
			return runInteractive(cmd, func(a *app.App) (screen.Screen, error) {
				return home.Study(a.Deps(), args[0], scopeFrom(cmd))
			})
		},
	}
	scopeFlag(cmd)
	return cmd
}

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz [set]",
		Short: "Take a multiple-choice quiz interactively",
		Long:  "Starts a quiz over a set, or opens the set list when no set is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInteractive(cmd, nil)
			}
			return runInteractive(cmd, func(a *app.App) (screen.Screen, error) {
				return home.Quiz(a.Deps(), args[0], scopeFrom(cmd))
			})
		},
	}
	scopeFlag(cmd)
	cmd.Flags().Int("options", 0, "Options per question")
	return cmd
}
