package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// VertexClient implements Client for Gemini models served by Vertex AI.
type VertexClient struct {
	client *genai.Client
	config *Config
}

// NewVertexClient creates a client using application default credentials.
func NewVertexClient(ctx context.Context, config *Config) (*VertexClient, error) {
	if config.Project == "" {
		return nil, fmt.Errorf("GCP project is required for the vertex provider")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Project,
		Location: config.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexClient{client: client, config: config}, nil
}

// GenerateContent streams a response and joins the chunks.
func (c *VertexClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier, opts GenerationOptions) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	temperature := opts.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: opts.MaxOutputTokens,
	}

	var sb strings.Builder
	for resp, err := range c.client.Models.GenerateContentStream(ctx, modelName, genai.Text(prompt), genConfig) {
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		sb.WriteString(resp.Text())
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}

// GetModel returns the model name for a tier
func (c *VertexClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the genai client holds no closable resources.
func (c *VertexClient) Close() error {
	return nil
}
