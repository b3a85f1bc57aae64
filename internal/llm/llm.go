package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the model services the pipeline calls. Four capabilities:
// image authenticity classification, open-ended defect analysis, schema-
// constrained extraction, and short message drafting. None are idempotent;
// none are retried here (see pipeline for the bounded retry wrapper).
type Client interface {
	// ClassifyImage screens an image for synthetic-generation artifacts and
	// stock/catalog indicators, returning raw JSON for the caller to parse.
	ClassifyImage(ctx context.Context, imageURL string) (json.RawMessage, error)
	// AnalyzeDefect produces a conservative free-text defect assessment.
	AnalyzeDefect(ctx context.Context, input AnalyzeInput) (string, error)
	// ExtractDefect converts a free-text assessment into the structured defect
	// record, returned as the raw tool-call arguments.
	ExtractDefect(ctx context.Context, analysis string) (json.RawMessage, error)
	// DraftMessage writes the short customer-facing message for a decision.
	DraftMessage(ctx context.Context, input DraftInput) (string, error)
}

// AnalyzeInput captures the inputs for the defect analyst call.
type AnalyzeInput struct {
	Description string
	ImageURL    string
	Language    string
}

// DraftInput captures the inputs for the correspondence drafter call.
type DraftInput struct {
	Decision string
	Reason   string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

func (PlaceholderClient) ClassifyImage(ctx context.Context, imageURL string) (json.RawMessage, error) {
	return nil, ErrNotImplemented
}

func (PlaceholderClient) AnalyzeDefect(ctx context.Context, input AnalyzeInput) (string, error) {
	return "", ErrNotImplemented
}

func (PlaceholderClient) ExtractDefect(ctx context.Context, analysis string) (json.RawMessage, error) {
	return nil, ErrNotImplemented
}

func (PlaceholderClient) DraftMessage(ctx context.Context, input DraftInput) (string, error) {
	return "", ErrNotImplemented
}

var _ Client = PlaceholderClient{}
