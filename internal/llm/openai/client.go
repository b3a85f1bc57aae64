package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"returns-backend/internal/llm"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Client against any OpenAI-compatible chat completions
// endpoint (including vision-capable gateways).
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI-compatible client. gatewayURL overrides the
// default OpenAI endpoint when set.
func NewClient(apiKey, model, gatewayURL string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	apiURL := strings.TrimSpace(gatewayURL)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is a string for plain text or []contentPart for vision messages.
	Content any `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []tool        `json:"tools,omitempty"`
	ToolChoice *toolChoice   `json:"tool_choice,omitempty"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls,omitempty"`
		} `json:"message"`
	} `json:"choices"`
	Usage *usage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ClassifyImage runs the forensics screen against the image locator.
func (c *Client) ClassifyImage(ctx context.Context, imageURL string) (json.RawMessage, error) {
	messages := []chatMessage{
		{Role: "system", Content: llm.ForensicsSystemPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: llm.ForensicsUserPrompt},
			{Type: "image_url", ImageURL: &imageURLPart{URL: imageURL}},
		}},
	}
	resp, err := c.complete(ctx, chatRequest{Model: c.model, Messages: messages}, "classify")
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("openai classify: empty content")
	}
	return json.RawMessage(trimJSONFence(content)), nil
}

// AnalyzeDefect runs the vision-language defect assessment.
func (c *Client) AnalyzeDefect(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: llm.AnalystSystemPrompt(input.Language)},
		{Role: "user", Content: "Product Issue Description: " + input.Description},
	}
	if input.ImageURL != "" {
		messages = append(messages, chatMessage{
			Role: "user",
			Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURLPart{URL: input.ImageURL}},
			},
		})
	}
	resp, err := c.complete(ctx, chatRequest{Model: c.model, Messages: messages}, "analyze")
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai analyze: empty content")
	}
	return content, nil
}

// ExtractDefect forces a tool call and returns its raw arguments.
func (c *Client) ExtractDefect(ctx context.Context, analysis string) (json.RawMessage, error) {
	choice := &toolChoice{Type: "function"}
	choice.Function.Name = "extract_defect_data"

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: llm.ExtractPrompt(analysis)},
		},
		Tools: []tool{{
			Type: "function",
			Function: toolFunction{
				Name:        "extract_defect_data",
				Description: "Extract structured defect data with confidence scoring",
				Parameters:  extractParameters(),
			},
		}},
		ToolChoice: choice,
	}

	resp, err := c.complete(ctx, req, "extract")
	if err != nil {
		return nil, err
	}
	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		return nil, fmt.Errorf("openai extract: response missing tool call")
	}
	args := strings.TrimSpace(calls[0].Function.Arguments)
	if args == "" {
		return nil, fmt.Errorf("openai extract: empty tool arguments")
	}
	return json.RawMessage(args), nil
}

// DraftMessage writes the short customer-facing message.
func (c *Client) DraftMessage(ctx context.Context, input llm.DraftInput) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: llm.DrafterSystemPrompt},
		{Role: "user", Content: llm.DraftPrompt(input.Decision, input.Reason)},
	}
	resp, err := c.complete(ctx, chatRequest{Model: c.model, Messages: messages}, "draft")
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai draft: empty content")
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, reqBody chatRequest, op string) (*chatResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("openai %s request timeout: %w", op, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("openai %s: http status %d: %s", op, resp.StatusCode, truncate(string(body), 300))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openai %s response parse: %w", op, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai %s error: %s (%s)", op, parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai %s: response missing choices", op)
	}
	logUsage(c.model, op, parsed.Usage)
	return &parsed, nil
}

func extractParameters() json.RawMessage {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"damage_type": map[string]any{
				"type":        "string",
				"enum":        llm.DamageTypes,
				"description": "The damage type, use UNKNOWN if not clear",
			},
			"category": map[string]any{
				"type":        "string",
				"enum":        llm.DefectCategories,
				"description": "The defect category, use UNKNOWN if not clear",
			},
			"is_visible": map[string]any{
				"type":        "boolean",
				"description": "Whether the defect is clearly visible in the image",
			},
			"confidence": map[string]any{
				"type":        "number",
				"description": "Confidence level 0-1, where <0.7 indicates uncertainty",
			},
		},
		"required": []string{"damage_type", "category", "is_visible", "confidence"},
	}
	raw, _ := json.Marshal(params)
	return raw
}

// trimJSONFence strips markdown code fences some gateways wrap around JSON.
func trimJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func logUsage(model, op string, u *usage) {
	if u == nil {
		log.Printf("llm response model=%s op=%s", model, op)
		return
	}
	log.Printf("llm response model=%s op=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, op, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

var _ llm.Client = (*Client)(nil)
