package routes

import (
	"net/http"
	"net/url"

	"github.com/rxcheck/ddi/internal/server/middleware"
	"github.com/rxcheck/ddi/pkg/catalog"

	"github.com/labstack/echo/v4"
)

func GetDrugsHandler(c echo.Context) error {
	type getDrugsResponse struct {
		Drugs []catalog.Entry `json:"drugs"`
		Count int             `json:"count"`
	}

	drugs := c.(*middleware.AppContext).App.Pipeline.ListDrugs()
	if drugs == nil {
		drugs = []catalog.Entry{}
	}

	return c.JSON(http.StatusOK, getDrugsResponse{
		Drugs: drugs,
		Count: len(drugs),
	})
}

func GetDrugHandler(c echo.Context) error {
	name := c.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	drug, ok := c.(*middleware.AppContext).App.Pipeline.GetDrug(name)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Drug not found"})
	}

	return c.JSON(http.StatusOK, drug)
}
