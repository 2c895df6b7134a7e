package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
)

func newLectureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lecture",
		Short: "Manage the lectures of a set",
	}

	add := &cobra.Command{
		Use:   "add <set> <title>",
		Short: "Add a lecture to a set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				l, err := a.Deck.AddLecture(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), l.ID)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list <set>",
		Short: "List the lectures of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(_ context.Context, a *app.App) error {
				lectures, err := a.Deck.Snapshot().SetLectures(args[0])
				if err != nil {
					return err
				}
				if len(lectures) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No lectures in this set.")
					return nil
				}
				rows := make([][]string, 0, len(lectures))
				for _, l := range lectures {
					rows = append(rows, []string{
						l.ID,
						clip(l.Title, 40),
						strconv.Itoa(len(l.Sources)),
						strconv.Itoa(len(l.CardIDs)),
					})
				}
				printTable(cmd.OutOrStdout(), []string{"ID", "Title", "Sources", "Cards"}, rows)
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <lecture> <title>",
		Short: "Rename a lecture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				return a.Deck.RenameLecture(args[0], args[1])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <lecture>",
		Short: "Delete a lecture and its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				return a.Deck.DeleteLecture(args[0])
			})
		},
	}

	cmd.AddCommand(add, list, rename, del)
	return cmd
}
