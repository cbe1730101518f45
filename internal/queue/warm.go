package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dishradar/pkg/common"
	"dishradar/pkg/dishes"
	"dishradar/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rabbitmq/amqp091-go"
)

// WarmMessage asks the worker to recompute the popular-items result for a
// venue and replace whatever the cache currently holds.
type WarmMessage struct {
	Message       string `json:"message"`
	PlaceID       string `json:"place_id"`
	CorrelationID string `json:"correlation_id"`
}

// PublishWarm enqueues a recompute request and returns its correlation ID.
func PublishWarm(ch *amqp091.Channel, placeID string) (string, error) {
	correlationID, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	msg := WarmMessage{
		Message:       "Warm popular items cache",
		PlaceID:       placeID,
		CorrelationID: correlationID,
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	if err := PublishFIFO(ch, WarmQueue, msgBytes); err != nil {
		return "", err
	}

	return correlationID, nil
}

// ProcessWarmMessage recomputes the result for the requested venue. A venue
// the provider no longer knows is dropped rather than retried: redelivery
// cannot fix a stale place ID.
func ProcessWarmMessage(
	ctx context.Context,
	service *dishes.Service,
	msg string,
) error {
	data := new(WarmMessage)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to unmarshal warm message: %w", err)
	}
	if data.PlaceID == "" {
		logger.Warn("[Queue] Warm message without place_id, dropping", "correlation_id", data.CorrelationID)
		return nil
	}

	result, err := service.Refresh(ctx, data.PlaceID)
	if err != nil {
		if errors.Is(err, common.ErrVenueNotFound) {
			logger.Warn("[Queue] Venue vanished, dropping warm request",
				"place_id", data.PlaceID, "correlation_id", data.CorrelationID)
			return nil
		}
		return err
	}

	logger.Info("[Queue] Warmed popular items cache",
		"place_id", data.PlaceID,
		"correlation_id", data.CorrelationID,
		"items", len(result.Items),
		"reviews", result.ReviewCount)
	return nil
}
