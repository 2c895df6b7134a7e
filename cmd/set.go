package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
)

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage flashcard sets",
	}

	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				s, err := a.Deck.CreateSet(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.ID)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(_ context.Context, a *app.App) error {
				st := a.Deck.Snapshot()
				sets := st.SortedSets()
				if len(sets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sets yet.")
					return nil
				}
				rows := make([][]string, 0, len(sets))
				for _, s := range sets {
					cards := 0
					for _, lid := range s.LectureIDs {
						if l, err := st.Lecture(lid); err == nil {
							cards += len(l.CardIDs)
						}
					}
					rows = append(rows, []string{
						s.ID,
						clip(s.Title, 40),
						strconv.Itoa(len(s.LectureIDs)),
						strconv.Itoa(cards),
						s.CreatedAt.Local().Format(timeLayout),
					})
				}
				printTable(cmd.OutOrStdout(), []string{"ID", "Title", "Lectures", "Cards", "Created"}, rows)
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <set> <title>",
		Short: "Rename a set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				return a.Deck.RenameSet(args[0], args[1])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <set>",
		Short: "Delete a set with all its lectures and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				return a.Deck.DeleteSet(args[0])
			})
		},
	}

	cmd.AddCommand(create, list, rename, del)
	return cmd
}
