package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"dishradar/pkg/ai"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

// GenerateCompletionWithFormat enforces a JSON schema derived from out and
// unmarshals the model response into it.
func (c *ReviewOllamaClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if out == nil {
		return errors.New("out must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}

	schemaObj := ai.GenerateSchema(out)
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return err
	}
	var format json.RawMessage = formatBytes

	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: buildMessages(options.SystemPrompts, prompt),
		Stream:   &stream,
		Format:   format,
		Options:  map[string]any{"temperature": options.Temperature},
	}

	if err := growContextWindow(req, prompt); err != nil {
		return err
	}

	final, err := c.collectChat(ctx, req)
	if err != nil {
		return err
	}

	return ai.UnmarshalFlexible(final.Message.Content, out)
}

func buildMessages(systemPrompts []string, prompt string) []api.Message {
	msgs := make([]api.Message, 0, len(systemPrompts)+1)
	for _, sp := range systemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	return append(msgs, api.Message{Role: "user", Content: prompt})
}

// growContextWindow bumps num_ctx past the default when the prompt alone
// would not fit a 4096-token window.
func growContextWindow(req *api.ChatRequest, prompt string) error {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return err
	}
	tokens := 200 + len(enc.Encode(prompt, nil, nil))
	if tokens > 4096 {
		req.Options["num_ctx"] = tokens
	}
	return nil
}

func (c *ReviewOllamaClient) collectChat(ctx context.Context, req *api.ChatRequest) (api.ChatResponse, error) {
	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return final, err
	}

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	return final, nil
}
