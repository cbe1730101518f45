package dishes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dishradar/internal/util"
	"dishradar/pkg/ai"
	"dishradar/pkg/common"
)

// maxReviewRunes keeps a pathological review body inside the extraction
// model's context budget. Provider reviews are orders of magnitude smaller.
const maxReviewRunes = 8000

type extractMention struct {
	ItemName  string  `json:"item_name" jsonschema_description:"Complete name of the food or drink item as mentioned in the review"`
	Sentiment float64 `json:"sentiment" jsonschema_description:"Sentiment score for this item between 0.0 (very negative) and 1.0 (very positive)"`
	Quote     string  `json:"quote" jsonschema_description:"Minimal span of review text supporting the sentiment"`
}

type extractResponse struct {
	Mentions []extractMention `json:"mentions" jsonschema_description:"Food and drink items mentioned in the review"`
}

// ReviewExtractor turns one review's free text into zero or more item
// mentions using a structured-output completion.
type ReviewExtractor struct {
	client ai.ReviewAIClient
}

// NewReviewExtractor creates an extractor backed by the given AI client.
func NewReviewExtractor(client ai.ReviewAIClient) *ReviewExtractor {
	return &ReviewExtractor{client: client}
}

// Extract returns the item mentions found in the review. A review with no
// identifiable items returns an empty slice and no error. Model or transport
// failures wrap common.ErrExtractionFailed; context cancellation passes
// through untouched so the caller can distinguish it.
func (e *ReviewExtractor) Extract(ctx context.Context, review common.Review) ([]common.Mention, error) {
	text := strings.TrimSpace(review.Text)
	if text == "" {
		return nil, nil
	}
	text = util.Truncate(text, maxReviewRunes)

	var res extractResponse
	err := e.client.GenerateCompletionWithFormat(
		ctx,
		"extract_menu_item_mentions",
		"Extract food and drink item mentions with sentiment from a restaurant review.",
		text,
		&res,
		ai.WithSystemPrompts(ExtractPrompt),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("review %s: %v: %w", review.ID, err, common.ErrExtractionFailed)
	}

	mentions := make([]common.Mention, 0, len(res.Mentions))
	for _, m := range res.Mentions {
		if util.CollapseWhitespace(m.ItemName) == "" {
			continue
		}
		mentions = append(mentions, common.Mention{
			ItemName:  m.ItemName,
			Sentiment: clamp01(m.Sentiment),
			ReviewID:  review.ID,
			Quote:     strings.TrimSpace(m.Quote),
		})
	}
	return mentions, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
