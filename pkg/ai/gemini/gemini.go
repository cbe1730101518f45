package gemini

import (
	"context"
	"math"
	"sync"

	"dishradar/pkg/ai"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ReviewGeminiClient implements ai.ReviewAIClient against the Gemini API.
type ReviewGeminiClient struct {
	extractionModel string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *genai.Client
}

// NewReviewGeminiClientParams contains configuration options for creating a
// new ReviewGeminiClient.
type NewReviewGeminiClientParams struct {
	ExtractionModel string
	ApiKey          string
}

// NewReviewGeminiClient creates a Gemini-backed client with the provided
// parameters.
func NewReviewGeminiClient(
	ctx context.Context,
	params NewReviewGeminiClientParams,
) (*ReviewGeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(params.ApiKey))
	if err != nil {
		return nil, err
	}

	return &ReviewGeminiClient{
		extractionModel: params.ExtractionModel,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		Client: client,
	}, nil
}

// Close releases the underlying API connection.
func (c *ReviewGeminiClient) Close() error {
	return c.Client.Close()
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *ReviewGeminiClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since the
// last reset.
func (c *ReviewGeminiClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *ReviewGeminiClient) modifyMetrics(m ai.ModelMetrics) {
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
