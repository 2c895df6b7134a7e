package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/snapshot"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write all sets, lectures, cards and runs to a JSON file",
		Long: `Export writes a versioned JSON document. Without a path the file is named
flashcarding_<timestamp>.json in the current directory; "-" writes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(_ context.Context, a *app.App) error {
				now := a.Deck.Now()
				doc := snapshot.Export(a.Deck.Snapshot(), now)

				path := snapshot.FileName(now)
				if len(args) == 1 {
					path = args[0]
				}
				if path == "-" {
					return snapshot.Encode(cmd.OutOrStdout(), doc)
				}

				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create %s: %w", path, err)
				}
				if err := snapshot.Encode(f, doc); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Merge an exported JSON file into the local data",
		Long: `Import validates the document and merges it: entries with the same id are
replaced by the imported ones, everything else is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			return withApp(cmd, true, func(_ context.Context, a *app.App) error {
				st, err := snapshot.Import(a.Deck, raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d sets, %d lectures, %d cards\n",
					len(st.Sets), len(st.Lectures), len(st.Cards))
				return nil
			})
		},
	}
}
