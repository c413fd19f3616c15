package narrative

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/spec-kit/triage-service/internal/domain"
)

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
}

// GeminiGenerator implements Generator with the Google GenAI SDK.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates the SDK client. No request is made until Explain.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: cfg.Model, temperature: float32(cfg.Temperature)}, nil
}

// Explain sends the instruction as system text and the ticket as user content.
func (g *GeminiGenerator) Explain(ctx context.Context, ticketText, issueType string) (domain.Explanation, error) {
	msgs := Messages(ticketText, issueType)

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(msgs[1].Text),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(msgs[0].Text, genai.RoleUser),
			Temperature:       genai.Ptr(g.temperature),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return domain.Explanation{}, fmt.Errorf("gemini generate: %w", err)
	}
	return ParseExplanation(resp.Text())
}
