package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/speech-coach/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	analysisHandler *Analysis
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, analysisHandler *Analysis) *Router {
	return &Router{
		cfg:             cfg,
		analysisHandler: analysisHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	rt.setupAnalysisRoutes(v1)
}

// setupAnalysisRoutes configures the scoring routes
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	limit := fmt.Sprintf("%dM", rt.cfg.Server.MaxUploadMB)
	analyses := g.Group("/analyses", middleware.BodyLimit(limit))

	if rt.analysisHandler == nil {
		analyses.POST("", rt.notImplemented)
		g.GET("/scoring/config", rt.notImplemented)
		return
	}

	analyses.POST("", rt.analysisHandler.AnalyzeUpload)
	analyses.POST("/samples", rt.analysisHandler.AnalyzeSamples)
	analyses.POST("/object", rt.analysisHandler.AnalyzeObject)
	g.GET("/scoring/config", rt.analysisHandler.GetConfig)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
