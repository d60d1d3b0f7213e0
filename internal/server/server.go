package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	mid "github.com/rxcheck/ddi/internal/server/middleware"
	"github.com/rxcheck/ddi/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Options tunes the HTTP surface. RateLimit is in requests per second per
// client IP; zero disables limiting.
type Options struct {
	RateLimit float64
}

// New builds the echo instance with middleware and routes attached.
func New(app *mid.App, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.RequestID())
	e.Use(mid.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if opts.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(opts.RateLimit))))
	}
	e.Use(middleware.BodyLimit("1M"))
	e.Use(mid.AppContextMiddleware(app))

	RegisterRoutes(e)

	return e
}

// Start serves on port until ctx is canceled, then shuts down gracefully.
func Start(ctx context.Context, e *echo.Echo, port string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
		return err
	}
	return nil
}
