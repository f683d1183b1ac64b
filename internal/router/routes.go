package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-scanner/internal/auth"
	"github.com/octobees/lead-scanner/internal/config"
	"github.com/octobees/lead-scanner/internal/handler"
	middlewarepkg "github.com/octobees/lead-scanner/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Scan       *handler.ScanHandler
	Businesses *handler.BusinessesHandler
	Messages   *handler.MessagesHandler
	Check      *handler.CheckHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))
	secured.Use(middlewarepkg.RequireRole("admin"))

	secured.POST("/scan", handlers.Scan.Start, middlewarepkg.ScanRateLimiter(cfg.RateLimitScan))
	secured.GET("/scans", handlers.Scan.List)
	secured.GET("/scan/:job_id", handlers.Scan.Status)
	secured.GET("/scan/:job_id/results", handlers.Scan.Results)
	secured.GET("/scan/:job_id/download", handlers.Scan.Download)
	secured.DELETE("/scan/:job_id", handlers.Scan.Cancel)

	secured.POST("/messages", handlers.Messages.Generate)
	secured.POST("/check-website", handlers.Check.Check)

	if handlers.Businesses != nil {
		secured.GET("/businesses", handlers.Businesses.List)
	}
}
