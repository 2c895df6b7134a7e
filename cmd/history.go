package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/screens/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past quizzes, or saved snapshots with --snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, _ := cmd.Flags().GetBool("snapshots")
			setID, _ := cmd.Flags().GetString("set")
			limit, _ := cmd.Flags().GetInt("limit")

			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				if snaps {
					return printSnapshots(ctx, cmd, a, limit)
				}
				entries := history.Entries(a.Deck.Snapshot(), setID)
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No quizzes taken yet.")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					done := "in progress"
					if e.Run.Finished() {
						done = e.Run.CompletedAt.Local().Format(timeLayout)
					}
					rows = append(rows, []string{
						e.Run.ID,
						clip(e.SetTitle, 30),
						fmt.Sprintf("%d/%d", e.Summary.Correct, e.Summary.Total),
						e.Run.CreatedAt.Local().Format(timeLayout),
						done,
					})
				}
				printTable(cmd.OutOrStdout(), []string{"Run", "Set", "Score", "Started", "Finished"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().Bool("snapshots", false, "List saved snapshots instead")
	cmd.Flags().String("set", "", "Only show quizzes of this set")
	cmd.Flags().Int("limit", 20, "Maximum entries to show (0 = all)")
	return cmd
}

func printSnapshots(ctx context.Context, cmd *cobra.Command, a *app.App, limit int) error {
	snaps, err := a.SnapshotHistory(ctx, limit)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No snapshots saved yet.")
		return nil
	}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			strconv.FormatInt(s.Sequence, 10),
			s.Timestamp.Local().Format(timeLayout),
		})
	}
	printTable(cmd.OutOrStdout(), []string{"Seq", "Saved"}, rows)
	return nil
}
