package routes

import (
	"net/http"

	"github.com/rxcheck/ddi/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status      string          `json:"status"`
	Services    map[string]bool `json:"services"`
	ModelLoaded bool            `json:"model_loaded"`
}

// HealthHandler reports which optional layers of the pipeline are active.
func HealthHandler(c echo.Context) error {
	caps := c.(*middleware.AppContext).App.Pipeline.Capabilities()

	return c.JSON(http.StatusOK, healthResponse{
		Status: "healthy",
		Services: map[string]bool{
			"reasoning": caps.Reasoning,
			"encoder":   caps.Encoder != "",
			"index":     caps.Index,
		},
		ModelLoaded: caps.Index,
	})
}
