package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/evaluation"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Take multiple-choice quizzes",
		Long: `Evaluation runs ask one multiple-choice question per card. Choices are
numbered from 1. Use "flashcarding quiz" for the interactive version.`,
	}

	start := &cobra.Command{
		Use:   "start <set>",
		Short: "Start an evaluation run and print its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				run, err := a.Evaluation.Start(args[0], scopeFrom(cmd), a.Config.Evaluation.Options)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "run", run.ID)
				for i, it := range run.Items {
					fmt.Fprintf(out, "\n%d. %s  (item %s)\n", i+1, it.Stem, it.ID)
					for j, o := range it.Options {
						fmt.Fprintf(out, "   %d) %s\n", j+1, o.Text)
					}
				}
				return nil
			})
		},
	}
	scopeFlag(start)
	start.Flags().Int("options", 0, "Options per question")

	answer := &cobra.Command{
		Use:   "answer <run> <item> <choice>",
		Short: "Answer one question",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			choice, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid choice %q: %w", args[2], err)
			}
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				resp, err := a.Evaluation.Answer(args[0], args[1], choice-1)
				if err != nil {
					return err
				}
				if resp.Correct {
					fmt.Fprintln(cmd.OutOrStdout(), "Correct!")
					return nil
				}
				run, err := a.Deck.Snapshot().EvaluationRun(args[0])
				if err != nil {
					return err
				}
				it, _ := run.Item(args[1])
				fmt.Fprintf(cmd.OutOrStdout(), "Incorrect. Answer: %s\n", it.Options[it.AnswerIndex].Text)
				return nil
			})
		},
	}

	finish := &cobra.Command{
		Use:   "finish <run>",
		Short: "Close a run and print its score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				run, err := a.Evaluation.Finish(args[0])
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), evaluation.Summarize(a.Deck.Snapshot(), run))
				return nil
			})
		},
	}

	summary := &cobra.Command{
		Use:   "summary <run>",
		Short: "Print the score of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(_ context.Context, a *app.App) error {
				st := a.Deck.Snapshot()
				run, err := st.EvaluationRun(args[0])
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), evaluation.Summarize(st, run))
				return nil
			})
		},
	}

	cmd.AddCommand(start, answer, finish, summary)
	return cmd
}

func printSummary(w io.Writer, s evaluation.Summary) {
	fmt.Fprintf(w, "Score: %d/%d (%.0f%%), %d answered\n", s.Correct, s.Total, s.Percent, s.Answered)
	if len(s.Lectures) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(s.Lectures))
		for _, l := range s.Lectures {
			rows = append(rows, []string{clip(l.Title, 40), fmt.Sprintf("%d/%d", l.Correct, l.Total)})
		}
		printTable(w, []string{"Lecture", "Correct"}, rows)
	}
	if len(s.Rows) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(s.Rows))
		for _, r := range s.Rows {
			mark := "✓"
			if !r.Correct {
				mark = "✗"
			}
			rows = append(rows, []string{mark, clip(r.Term, 30), clip(r.ChosenText, 30), clip(r.CorrectText, 30)})
		}
		printTable(w, []string{"", "Term", "Chosen", "Answer"}, rows)
	}
}
