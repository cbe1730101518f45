package openai

import (
	"errors"
	"math"
	"sync"

	"dishradar/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ReviewOpenAIClient implements ai.ReviewAIClient against any
// OpenAI-compatible chat completion endpoint.
type ReviewOpenAIClient struct {
	extractionModel string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewReviewOpenAIClientParams defines the configuration for creating a new
// ReviewOpenAIClient. ChatURL may be empty to use the default OpenAI API.
type NewReviewOpenAIClientParams struct {
	ExtractionModel string

	ChatURL string
	ChatKey string
}

// NewReviewOpenAIClient creates a client configured with the provided
// parameters. A missing API key is an error so misconfiguration surfaces at
// startup instead of on the first extraction call.
func NewReviewOpenAIClient(
	params NewReviewOpenAIClientParams,
) (*ReviewOpenAIClient, error) {
	if params.ChatKey == "" {
		return nil, errors.New("openai: chat API key is required")
	}

	return &ReviewOpenAIClient{
		extractionModel: params.ExtractionModel,

		chatURL: params.ChatURL,
		chatKey: params.ChatKey,

		ChatClient: newOpenaiClient(params.ChatURL, params.ChatKey),
	}, nil
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *ReviewOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since the
// last reset.
func (c *ReviewOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *ReviewOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs

	if c.metrics.DurationMs > 0 {
		tokensPerSecond := (float64(c.metrics.TotalTokens) * 1000.0) / float64(c.metrics.DurationMs)
		c.metrics.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}
