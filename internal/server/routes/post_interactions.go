package routes

import (
	"net/http"
	"strings"

	"github.com/rxcheck/ddi/internal/server/middleware"
	"github.com/rxcheck/ddi/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// CheckInteractionHandler resolves a single drug pair.
func CheckInteractionHandler(c echo.Context) error {
	type checkInteractionBody struct {
		DrugA string `json:"drugA" validate:"required"`
		DrugB string `json:"drugB" validate:"required"`
	}

	data := new(checkInteractionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	data.DrugA = strings.TrimSpace(data.DrugA)
	data.DrugB = strings.TrimSpace(data.DrugB)
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	log := logger.FromContext(ctx).With("drug_a", data.DrugA, "drug_b", data.DrugB)
	log.Info("Checking interaction")

	pipeline := c.(*middleware.AppContext).App.Pipeline
	res, err := pipeline.Resolve(ctx, data.DrugA, data.DrugB)
	if err != nil {
		log.Error("Error processing interaction check", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, res)
}
