package server

import (
	"dishradar/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Venue resolution and detail routes
	apiRoutes.POST("/places/search", routes.SearchPlacesHandler)
	apiRoutes.GET("/places/:place_id", routes.GetPlaceHandler)

	// Popular items routes
	apiRoutes.GET("/places/:place_id/popular-items", routes.GetPopularItemsHandler)
	apiRoutes.POST("/places/:place_id/refresh", routes.RefreshPlaceHandler)
}
