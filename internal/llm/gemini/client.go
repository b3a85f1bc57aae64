package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"returns-backend/internal/llm"
)

// Client implements llm.Client using the official Gemini SDK. The genai client
// reads GEMINI_API_KEY from the environment.
type Client struct {
	cli   *genai.Client
	model string
}

// NewClient constructs a Gemini-backed model client.
func NewClient(ctx context.Context, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Client{cli: cli, model: model}, nil
}

// ClassifyImage runs the forensics screen, asking for a JSON response.
func (g *Client) ClassifyImage(ctx context.Context, imageURL string) (json.RawMessage, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{Text: llm.ForensicsSystemPrompt + "\n\n" + llm.ForensicsUserPrompt},
			{FileData: &genai.FileData{FileURI: imageURL}},
		},
	}}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents,
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, fmt.Errorf("gemini classify: %w", err)
	}
	return json.RawMessage(text), nil
}

// AnalyzeDefect runs the vision-language defect assessment.
func (g *Client) AnalyzeDefect(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	parts := []*genai.Part{
		{Text: llm.AnalystSystemPrompt(input.Language)},
		{Text: "Product Issue Description: " + input.Description},
	}
	if input.ImageURL != "" {
		parts = append(parts, &genai.Part{FileData: &genai.FileData{FileURI: input.ImageURL}})
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, []*genai.Content{{Parts: parts}}, nil)
	if err != nil {
		return "", err
	}
	text, err := firstText(resp)
	if err != nil {
		return "", fmt.Errorf("gemini analyze: %w", err)
	}
	return text, nil
}

// ExtractDefect asks for the structured defect record under a response schema,
// so malformed shapes are rejected by the service itself where possible.
func (g *Client) ExtractDefect(ctx context.Context, analysis string) (json.RawMessage, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: llm.ExtractPrompt(analysis)}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   extractSchema(),
		},
	)
	if err != nil {
		return nil, err
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, fmt.Errorf("gemini extract: %w", err)
	}
	return json.RawMessage(text), nil
}

// DraftMessage writes the short customer-facing message.
func (g *Client) DraftMessage(ctx context.Context, input llm.DraftInput) (string, error) {
	prompt := llm.DrafterSystemPrompt + "\n\n" + llm.DraftPrompt(input.Decision, input.Reason)
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}, nil)
	if err != nil {
		return "", err
	}
	text, err := firstText(resp)
	if err != nil {
		return "", fmt.Errorf("gemini draft: %w", err)
	}
	return text, nil
}

func extractSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"damage_type": {Type: genai.TypeString, Enum: llm.DamageTypes},
			"category":    {Type: genai.TypeString, Enum: llm.DefectCategories},
			"is_visible":  {Type: genai.TypeBoolean},
			"confidence":  {Type: genai.TypeNumber},
		},
		Required: []string{"damage_type", "category", "is_visible", "confidence"},
	}
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty response text")
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)
