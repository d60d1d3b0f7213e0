package middleware

import (
	"github.com/rxcheck/ddi/pkg/resolve"

	"github.com/labstack/echo/v4"
)

type App struct {
	Pipeline *resolve.Pipeline
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware exposes app to handlers through *AppContext.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
