package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
)

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage the cards of a lecture",
	}

	add := &cobra.Command{
		Use:   "add <lecture> <term> <explanation>",
		Short: "Add a card by hand",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				c, err := a.Deck.AddCard(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
				return nil
			})
		},
	}

	edit := &cobra.Command{
		Use:   "edit <card> <term> <explanation>",
		Short: "Replace a card's term and explanation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				_, err := a.Deck.EditCard(args[0], args[1], args[2])
				return err
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <card>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				return a.Deck.DeleteCard(args[0])
			})
		},
	}

	list := &cobra.Command{
		Use:   "list <lecture>",
		Short: "List the cards of a lecture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(_ context.Context, a *app.App) error {
				cards, err := a.Deck.Snapshot().LectureCards(args[0])
				if err != nil {
					return err
				}
				if len(cards) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cards in this lecture.")
					return nil
				}
				rows := make([][]string, 0, len(cards))
				for _, c := range cards {
					rows = append(rows, []string{
						c.ID,
						clip(c.Term, 30),
						clip(c.Explanation, 50),
						strconv.Itoa(c.Stats.Views),
						strconv.Itoa(c.Stats.Streak),
					})
				}
				printTable(cmd.OutOrStdout(), []string{"ID", "Term", "Explanation", "Views", "Streak"}, rows)
				return nil
			})
		},
	}

	cmd.AddCommand(add, edit, del, list)
	return cmd
}
