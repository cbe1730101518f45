package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dishradar/pkg/ai"

	"github.com/google/generative-ai-go/genai"
)

// GenerateCompletionWithFormat requests a JSON response and unmarshals it
// into out. Gemini enforces the MIME type but not a schema, so parsing goes
// through the same repair path as the other adapters.
func (c *ReviewGeminiClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	model := c.buildModel(options, "application/json")

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return err
	}

	c.recordUsage(resp, time.Since(start).Milliseconds())

	text, err := responseText(resp)
	if err != nil {
		return err
	}
	return ai.UnmarshalFlexible(text, out)
}

func (c *ReviewGeminiClient) buildModel(options ai.GenerateOptions, mimeType string) *genai.GenerativeModel {
	model := c.Client.GenerativeModel(options.Model)
	model.SetTemperature(float32(options.Temperature))
	if mimeType != "" {
		model.ResponseMIMEType = mimeType
	}
	if len(options.SystemPrompts) > 0 {
		parts := make([]genai.Part, 0, len(options.SystemPrompts))
		for _, sp := range options.SystemPrompts {
			parts = append(parts, genai.Text(sp))
		}
		model.SystemInstruction = &genai.Content{Parts: parts}
	}
	return model
}

func (c *ReviewGeminiClient) recordUsage(resp *genai.GenerateContentResponse, durationMs int64) {
	if resp.UsageMetadata == nil {
		return
	}
	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		DurationMs:   durationMs,
	})
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return sb.String(), nil
}
