package generative

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers with no text at all.
// Callers treat it as a failed attempt, distinct from transport errors.
var ErrEmptyResponse = errors.New("empty response from generation backend")

var _ Client = (*AIClient)(nil)

// Client is the generation backend contract. It exists so the pipeline and
// its tests can substitute a fake backend instead of a process-wide client.
type Client interface {
	GenerateWithSystem(ctx context.Context, system, prompt string, temperature float64) (string, error)
}

// AIClient wraps a single text-generation model behind the Client contract.
type AIClient struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
}

func NewAIClient(ctx context.Context, model string, maxOutputTokens int32) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	return &AIClient{
		client:          client,
		model:           model,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

// GenerateWithSystem sends one chat-style completion request: a system role
// framing plus the user prompt, at the caller-supplied temperature.
func (ai *AIClient) GenerateWithSystem(ctx context.Context, system, prompt string, temperature float64) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: ai.maxOutputTokens,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	txt := result.Text()
	if txt == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}
