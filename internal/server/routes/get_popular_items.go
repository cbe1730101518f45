package routes

import (
	"errors"
	"net/http"

	"dishradar/internal/server/middleware"
	"dishradar/pkg/common"

	"github.com/labstack/echo/v4"
)

func GetPopularItemsHandler(c echo.Context) error {
	type getPopularItemsParams struct {
		PlaceID string `param:"place_id" validate:"required"`
	}

	params := new(getPopularItemsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	result, err := service.GetPopularItems(ctx, params.PlaceID)
	if err != nil {
		if errors.Is(err, common.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Venue not found"})
		}
		if errors.Is(err, common.ErrProviderUnavailable) {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Venue provider unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}
