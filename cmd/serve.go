package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/cardgen"
	"github.com/abhisek/flashcarding/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the flashcard generation HTTP service",
		Long: `Serve answers POST /api/generate-flashcards and
/api/generate-flashcards-with-summary with heuristically extracted cards.
Remote-mode clients can point --generator-url at it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
				gen := cardgen.WithLogging(cardgen.NewHeuristic(a.Config.Ingest.MaxRows), a.Events(), a.Log)
				srv := server.New(gen, a.Log, a.Config.Server.AllowedOrigins)
				a.Log.Info("serving", "addr", a.Config.Server.Addr)
				return srv.Run(ctx, a.Config.Server.Addr)
			})
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default :8000)")
	cmd.Flags().StringSlice("allowed-origin", nil, "CORS origins to allow (default *)")
	cmd.Flags().Int("max-rows", 0, "Maximum cards extracted per request")
	return cmd
}
