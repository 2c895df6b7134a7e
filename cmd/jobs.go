package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent card generation calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			failed, _ := cmd.Flags().GetBool("failed")

			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				events, err := a.GenerationEvents(ctx, limit)
				if err != nil {
					return fmt.Errorf("query events: %w", err)
				}
				var rows [][]string
				for _, e := range events {
					if failed && e.Success {
						continue
					}
					ok := "✓"
					if !e.Success {
						ok = "✗ " + clip(e.ErrorMessage, 40)
					}
					rows = append(rows, []string{
						strconv.FormatInt(e.Sequence, 10),
						e.Timestamp.Local().Format(timeLayout),
						e.Generator,
						e.LectureID,
						strconv.Itoa(e.Rows),
						strconv.FormatInt(e.LatencyMs, 10),
						ok,
					})
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No generation events found.")
					return nil
				}
				printTable(cmd.OutOrStdout(), []string{"Seq", "Timestamp", "Generator", "Lecture", "Rows", "Ms", "OK"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum events to show (0 = all)")
	cmd.Flags().Bool("failed", false, "Only show failed calls")
	return cmd
}
