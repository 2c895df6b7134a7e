package cardgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/abhisek/flashcarding/internal/extract"
	"github.com/abhisek/flashcarding/internal/schemacheck"
)

// maxErrorBody bounds how much of a failure body is kept.
const maxErrorBody = 4 << 10

// responseSchema is the contract for generation service answers. Row fields
// are only type-checked; blank rows are dropped later.
const responseSchema = `{
	"type": "object",
	"required": ["flashcards"],
	"properties": {
		"flashcards": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["term", "explanation"],
				"properties": {
					"term": {"type": "string"},
					"explanation": {"type": "string"}
				}
			}
		},
		"summary": {"type": ["string", "null"]}
	}
}`

// Remote posts material to a generation service as a multipart form.
type Remote struct {
	baseURL  string
	endpoint string
	client   *http.Client
}

// NewRemote returns a client for the service at baseURL. A nil client uses
// http.DefaultClient.
func NewRemote(baseURL, endpoint string, client *http.Client) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Remote{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: "/" + strings.TrimLeft(endpoint, "/"),
		client:   client,
	}
}

type remoteResponse struct {
	Flashcards []extract.Row `json:"flashcards"`
	Summary    *string       `json:"summary"`
}

func (r *Remote) Generate(ctx context.Context, in Input) (*Result, error) {
	body, contentType, err := encodeForm(in)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+r.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ErrGenerationFailed{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}
	if err := schemacheck.Validate("generation-response", []byte(responseSchema), raw); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}
	res := &Result{Rows: out.Flashcards}
	if out.Summary != nil {
		res.Summary = *out.Summary
	}
	return res, nil
}

func (r *Remote) Name() string { return "remote" }

func encodeForm(in Input) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if in.Text != "" {
		if err := w.WriteField("text", in.Text); err != nil {
			return nil, "", err
		}
	}
	if in.File != nil {
		part, err := w.CreateFormFile("file", in.File.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(in.File.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
