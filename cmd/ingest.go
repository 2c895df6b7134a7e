package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/ingest"
	"github.com/abhisek/flashcarding/internal/source"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <lecture> [file...]",
		Short: "Extract flashcards from text or files into a lecture",
		Long: `Ingest pasted text and/or files (PDF, markdown or plain text) into a lecture.
Each input becomes a source of the lecture and its extracted cards are merged
into the lecture's deck.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}
	cmd.Flags().String("text", "", "Text to ingest")
	cmd.Flags().String("name", "", "Display name for --text")
	cmd.Flags().Int("chunk-size", 0, "Maximum characters per source chunk")
	cmd.Flags().Int("max-rows", 0, "Maximum cards extracted per input")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	lectureID, paths := args[0], args[1:]
	text, _ := cmd.Flags().GetString("text")
	name, _ := cmd.Flags().GetString("name")

	var reqs []ingest.Request
	if text != "" {
		reqs = append(reqs, ingest.Request{LectureID: lectureID, Name: name, Text: text})
	}
	for _, p := range paths {
		f, err := source.ReadFile(p)
		if err != nil {
			return err
		}
		reqs = append(reqs, ingest.Request{LectureID: lectureID, File: &f})
	}
	if len(reqs) == 0 {
		return errors.New("nothing to ingest: pass --text or at least one file")
	}

	return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
		jobs := make([]*deck.Job, len(reqs))
		g, gctx := errgroup.WithContext(ctx)
		for i, req := range reqs {
			g.Go(func() error {
				job, err := a.Pipeline.Ingest(gctx, req)
				if err != nil {
					return err
				}
				jobs[i] = job
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for i, job := range jobs {
			label := reqs[i].Name
			if reqs[i].File != nil {
				label = reqs[i].File.Name
			}
			if label == "" {
				label = "text"
			}
			if job.Stage == deck.StageError {
				failed++
				fmt.Fprintf(out, "✗ %s: %s\n", label, job.Error)
				continue
			}
			fmt.Fprintf(out, "✓ %s\n", label)
		}

		cards, err := a.Deck.Snapshot().LectureCards(lectureID)
		if err == nil {
			fmt.Fprintf(out, "%d cards in lecture\n", len(cards))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d inputs failed", failed, len(jobs))
		}
		return nil
	})
}
