package routes

import (
	"errors"
	"net/http"

	"dishradar/internal/server/middleware"
	"dishradar/pkg/common"

	"github.com/labstack/echo/v4"
)

func SearchPlacesHandler(c echo.Context) error {
	type searchPlacesParams struct {
		Query    string `json:"query" validate:"required"`
		Language string `json:"language"`
	}

	type searchPlacesResponse struct {
		Message    string             `json:"message"`
		Candidates []common.Candidate `json:"candidates"`
	}

	params := new(searchPlacesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	service := c.(*middleware.AppContext).App.Service

	candidates, err := service.ResolveQuery(ctx, params.Query, params.Language)
	if err != nil {
		if errors.Is(err, common.ErrInvalidQuery) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query must not be empty"})
		}
		if errors.Is(err, common.ErrProviderUnavailable) {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Venue provider unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	message := "Candidates found"
	if len(candidates) == 0 {
		message = "No matching venues"
	}

	return c.JSON(http.StatusOK, searchPlacesResponse{
		Message:    message,
		Candidates: candidates,
	})
}
