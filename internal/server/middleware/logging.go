package middleware

import (
	"github.com/rxcheck/ddi/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestID tags every request with a nanoid unless the caller sent one, and
// attaches a logger entry carrying the id to the request context.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			id, err := gonanoid.New()
			if err != nil {
				return ""
			}
			return id
		},
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), logger.With("request_id", id))))
		},
	})
}

// RequestLogger writes one line per request through the logger facade.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			keyvals := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			switch {
			case v.Error != nil:
				logger.Error("Request failed", append(keyvals, "err", v.Error)...)
			case v.Status >= 500:
				logger.Error("Request failed", keyvals...)
			default:
				logger.Debug("Request", keyvals...)
			}
			return nil
		},
	})
}
