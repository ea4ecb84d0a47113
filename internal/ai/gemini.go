// README: Gemini-backed writer for organizer-facing ride announcements.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Writer produces announcement text from a prepared prompt. Satisfied by
// GeminiWriter in production and by stubs in tests.
type Writer interface {
	Write(ctx context.Context, prompt string) (string, error)
}

// GeminiWriter implements Writer using Google's Gemini models.
type GeminiWriter struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiWriter initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiWriter(ctx context.Context, apiKey string) (*GeminiWriter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash: low latency and cost for short announcement text.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(0.4)

	return &GeminiWriter{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (w *GeminiWriter) Close() {
	w.client.Close()
}

// Write generates announcement text for the given prompt.
func (w *GeminiWriter) Write(ctx context.Context, prompt string) (string, error) {
	resp, err := w.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(out.String()), nil
}
