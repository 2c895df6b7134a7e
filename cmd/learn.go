package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/learning"
)

func newLearnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Step through cards one at a time",
		Long: `Learning runs walk through a set's cards in order. Use "flashcarding study"
for the interactive version.`,
	}

	start := &cobra.Command{
		Use:   "start <set>",
		Short: "Start a learning run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				run, err := a.Learning.Start(args[0], scopeFrom(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "run", run.ID)
				printLearning(cmd.OutOrStdout(), a.Deck.Snapshot(), run, false)
				return nil
			})
		},
	}
	scopeFlag(start)

	step := func(use, short string, fn func(*learning.Engine, string) (*deck.LearningRun, error), back bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <run>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, true, func(_ context.Context, a *app.App) error {
					run, err := fn(a.Learning, args[0])
					if err != nil {
						return err
					}
					printLearning(cmd.OutOrStdout(), a.Deck.Snapshot(), run, back)
					return nil
				})
			},
		}
	}

	show := &cobra.Command{
		Use:   "show <run>",
		Short: "Show the current card with its explanation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(_ context.Context, a *app.App) error {
				st := a.Deck.Snapshot()
				run, err := st.LearningRun(args[0])
				if err != nil {
					return err
				}
				printLearning(cmd.OutOrStdout(), st, run, true)
				return nil
			})
		},
	}

	cmd.AddCommand(
		start,
		step("next", "Move to the next card", (*learning.Engine).Next, false),
		step("prev", "Move to the previous card", (*learning.Engine).Prev, false),
		step("flip", "Turn the current card over", (*learning.Engine).Flip, true),
		show,
	)
	return cmd
}

func printLearning(w io.Writer, st *deck.State, run *deck.LearningRun, back bool) {
	if len(run.Order) == 0 {
		fmt.Fprintln(w, "No cards in scope.")
		return
	}
	fmt.Fprintf(w, "[%d/%d] ", run.Cursor+1, len(run.Order))
	c, ok := learning.Current(st, run)
	if !ok {
		fmt.Fprintln(w, "(card was deleted)")
		return
	}
	fmt.Fprintln(w, c.Term)
	if back {
		fmt.Fprintln(w, "  "+c.Explanation)
	}
	if learning.Done(run) {
		fmt.Fprintln(w, "Last card.")
	}
}
