package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/port"
)

const systemPrompt = "You are a document analysis assistant. Answer only from the supplied document text. " +
	"Do not invent content that is not present in the text."

// contentGenerator is the subset of *genai.GenerativeModel the completer needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Completer sends prompts to a Gemini model on Vertex AI.
type Completer struct {
	client    *genai.Client
	textModel contentGenerator
	jsonModel contentGenerator
}

func NewCompleter(ctx context.Context, projectID, region, modelName string) (*Completer, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewCompleter: projectID and region cannot be empty")
	}

	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	instruction := &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	textModel := client.GenerativeModel(modelName)
	textModel.SystemInstruction = instruction

	jsonModel := client.GenerativeModel(modelName)
	jsonModel.SystemInstruction = instruction
	jsonModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &Completer{client: client, textModel: textModel, jsonModel: jsonModel}, nil
}

func (c *Completer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := c.textModel
	if req.JSON {
		model = c.jsonModel
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", domain.ErrUpstreamServiceFailed, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamServiceFailed, err)
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("response has no text")
	}
	return text, nil
}

// Disabled stands in when no completion service is configured; every call fails.
type Disabled struct{}

func (Disabled) Complete(context.Context, domain.CompletionRequest) (string, error) {
	return "", fmt.Errorf("%w: completion service not configured", domain.ErrUpstreamServiceFailed)
}

var (
	_ port.TextCompleter = (*Completer)(nil)
	_ port.TextCompleter = Disabled{}
)
