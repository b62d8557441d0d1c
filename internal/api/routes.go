// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/volttools/urdfconv/internal/output"
	"github.com/volttools/urdfconv/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store         storage.Store
	Converter     Converter
	DefaultFormat output.Format
	Version       string

	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Convert  ConvertHandler
	Document DocumentHandler

	gatherer prometheus.Gatherer
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version),
		Convert:  NewConvertHandler(deps.Converter, deps.DefaultFormat),
		Document: NewDocumentHandler(deps.Store, deps.Converter, deps.DefaultFormat),
		gatherer: deps.Gatherer,
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/health", handlers.Health.HandleHealth)

	e.POST("/api/convert", handlers.Convert.HandleConvert)

	docGroup := e.Group("/api/documents")
	docGroup.POST("", handlers.Document.HandleUploadDocument)
	docGroup.GET("", handlers.Document.HandleGetRecentDocuments)
	docGroup.GET("/:id", handlers.Document.HandleGetDocument)
	docGroup.DELETE("/:id", handlers.Document.HandleDeleteDocument)
	docGroup.PUT("/:id", handlers.Document.HandleRenameDocument)
	docGroup.GET("/:id/robot", handlers.Document.HandleGetRobot)
	docGroup.GET("/:id/fk", handlers.Document.HandleGetKinematics)

	if handlers.gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(handlers.gatherer, promhttp.HandlerOpts{})))
	}
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
