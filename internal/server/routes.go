package server

import (
	"github.com/rxcheck/ddi/internal/server/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", routes.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Interaction routes
	e.POST("/interactions/check", routes.CheckInteractionHandler)

	// Reference data routes
	e.GET("/drugs", routes.GetDrugsHandler)
	e.GET("/drugs/:name", routes.GetDrugHandler)
}
