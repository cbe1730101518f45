package routes

import (
	"net/http"

	"dishradar/internal/queue"
	"dishradar/internal/server/middleware"
	"dishradar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RefreshPlaceHandler enqueues a recompute for the venue and returns
// immediately. The worker replaces the cached result when it is done.
func RefreshPlaceHandler(c echo.Context) error {
	type refreshPlaceParams struct {
		PlaceID string `param:"place_id" validate:"required"`
	}

	type refreshPlaceResponse struct {
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id"`
	}

	params := new(refreshPlaceParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ch := c.(*middleware.AppContext).App.Queue

	correlationID, err := queue.PublishWarm(ch, params.PlaceID)
	if err != nil {
		logger.Error("[Server] Failed to enqueue warm request", "place_id", params.PlaceID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue refresh"})
	}

	return c.JSON(http.StatusAccepted, refreshPlaceResponse{
		Message:       "Refresh enqueued",
		CorrelationID: correlationID,
	})
}
