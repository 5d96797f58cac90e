package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Google is a Completer backed by the Gemini API.
type Google struct {
	client *genai.Client
	model  string
}

// NewGoogle creates a Gemini completer. Close releases its connection.
func NewGoogle(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Google, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: create client: %w", err)
	}
	return &Google{client: client, model: model}, nil
}

// Model returns the model name.
func (g *Google) Model() string { return g.model }

// Complete implements Completer.
func (g *Google) Complete(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("google: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("google: %w", ErrEmptyReply)
	}
	return b.String(), nil
}

// Close releases the client.
func (g *Google) Close() error {
	return g.client.Close()
}
