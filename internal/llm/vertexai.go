package llm

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

const defaultModel = "gemini-1.5-flash"

// VertexAIClient wraps the Vertex AI Gemini API.
type VertexAIClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	projectID string
	location  string
}

// NewVertexAIClient connects to Vertex AI in the given project and
// location. An empty modelName selects the default Gemini model.
func NewVertexAIClient(ctx context.Context, projectID, location, modelName string) (*VertexAIClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("vertex ai project ID not configured")
	}
	if location == "" {
		location = "us-central1"
	}
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Low temperature keeps rewrites close to the source material.
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)

	return &VertexAIClient{
		client:    client,
		model:     model,
		projectID: projectID,
		location:  location,
	}, nil
}

// GenerateContent sends a prompt to the model and returns the response
// text, capped at maxTokens. The shared model is copied per call so
// concurrent callers can carry different token caps.
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	model := *v.model
	if maxTokens > 0 {
		model.SetMaxOutputTokens(maxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates returned")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}

// Close closes the underlying Vertex AI client.
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
