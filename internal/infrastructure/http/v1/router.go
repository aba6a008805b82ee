// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"comexa/internal/domain/carga"
	"comexa/internal/domain/despacho"
	"comexa/internal/domain/documento"
	"comexa/internal/domain/liquidacion"
	"comexa/internal/domain/reports"
	"comexa/internal/infrastructure/http/v1/handlers"
	"comexa/internal/infrastructure/http/v1/middleware"
	"comexa/internal/infrastructure/storage/postgres"
	"comexa/pkg/logger"
)

// RouterConfig holds the wired services the router serves.
type RouterConfig struct {
	Pool         *postgres.Pool
	Capabilities *postgres.Capabilities
	Logger       *logger.Logger

	// TokenValidator guards every endpoint outside /health. Nil
	// disables authentication (local development only).
	TokenValidator middleware.TokenValidator

	DespachoService    *despacho.Service
	LiquidacionService *liquidacion.Service
	CargaService       *carga.Service
	DocumentoService   *documento.Service
	ReportsService     *reports.Service

	// Trail serves the per-despacho timeline endpoint. Optional.
	Trail *postgres.SeguimientoWriter
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints, no auth
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Capabilities)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	if cfg.TokenValidator != nil {
		api.Use(middleware.Actor(cfg.TokenValidator))
	}

	baseHandler := handlers.NewBaseHandler()

	despachos := api.Group("/despachos")
	handlers.NewDespachoHandler(baseHandler, cfg.DespachoService, cfg.Trail).
		RegisterRoutes(despachos)

	liquidaciones := api.Group("/liquidaciones")
	handlers.NewLiquidacionHandler(baseHandler, cfg.LiquidacionService).
		RegisterRoutes(despachos, liquidaciones)

	cargas := api.Group("/cargas")
	handlers.NewCargaHandler(baseHandler, cfg.CargaService).
		RegisterRoutes(despachos, cargas)

	documentos := api.Group("/documentos")
	handlers.NewDocumentoHandler(baseHandler, cfg.DocumentoService).
		RegisterRoutes(despachos, documentos)

	reportsGroup := api.Group("/reports")
	handlers.NewReportsHandler(baseHandler, cfg.ReportsService).
		RegisterRoutes(reportsGroup)

	return router
}
