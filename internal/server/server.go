// Package server exposes card generation over HTTP with the same multipart
// contract the remote generator speaks.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/flashcarding/internal/cardgen"
	"github.com/abhisek/flashcarding/internal/extract"
	"github.com/abhisek/flashcarding/internal/logger"
	"github.com/abhisek/flashcarding/internal/source"
)

const (
	// MaxTextLength bounds the text handed to the generator, in runes.
	MaxTextLength = 8000

	maxUploadBytes  = 32 << 20
	shutdownTimeout = 5 * time.Second
)

const errMissingInput = "Provide either 'text' or 'file'."

// Server answers generation requests with a Generator.
type Server struct {
	gen     cardgen.Generator
	log     *logger.Logger
	origins []string
}

// New returns a server. An empty origins list allows any origin.
func New(gen cardgen.Generator, log *logger.Logger, origins []string) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{gen: gen, log: log, origins: origins}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-flashcards", s.generate(false))
		r.Post("/generate-flashcards-with-summary", s.generate(true))
	})

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("generation service listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Flashcard backend running",
	})
}

type generateResponse struct {
	Flashcards []extract.Row `json:"flashcards"`
	Summary    *string       `json:"summary,omitempty"`
}

func (s *Server) generate(withSummary bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := readInput(r)
		if err != nil {
			var bad *inputError
			if errors.As(err, &bad) {
				s.writeError(w, http.StatusBadRequest, bad.msg)
				return
			}
			if errors.Is(err, source.ErrUnreadable) {
				s.writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			s.log.Error("read generation input", "error", err)
			s.writeError(w, http.StatusInternalServerError, "could not read input")
			return
		}

		res, err := s.gen.Generate(r.Context(), cardgen.Input{Text: Truncate(text, MaxTextLength)})
		if err != nil {
			s.log.Warn("generation failed", "generator", s.gen.Name(), "error", err)
			s.writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		out := generateResponse{Flashcards: res.Rows}
		if out.Flashcards == nil {
			out.Flashcards = []extract.Row{}
		}
		if withSummary {
			// Summaries need a language model; the heuristic path has none.
			out.Summary = &res.Summary
		}
		s.writeJSON(w, http.StatusOK, out)
	}
}

type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

// readInput returns the request text. An uploaded file replaces the text
// field.
func readInput(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return "", &inputError{msg: "malformed form: " + err.Error()}
	}

	text := r.FormValue("text")
	f, hdr, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		if text == "" {
			return "", &inputError{msg: errMissingInput}
		}
		return text, nil
	case err != nil:
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return source.Text(source.File{Name: hdr.Filename, Data: data})
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
