package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrBlocked is returned when the safety layer refuses to answer a prompt.
// The response carries no usable text in that case, so callers substitute a
// fixed user-facing message instead of failing loudly.
var ErrBlocked = errors.New("request blocked by safety filters")

// Client wraps the GenAI SDK behind two plain (prompt) -> text calls so the
// classifier and the report builder stay deterministic in tests.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewClient: create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// GenerateJSON sends the prompt with a JSON response MIME type, for calls
// whose output must be a single JSON object.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	return c.generate(ctx, prompt, cfg)
}

// GenerateText sends the prompt for free-form output. Temperature matches
// the report-writing use case rather than extraction.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
	return c.generate(ctx, prompt, cfg)
}

func (c *Client) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("generate: %w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generate: empty response from model")
	}
	return text, nil
}
