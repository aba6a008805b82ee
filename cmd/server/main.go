// Package main is the entry point for the comexa API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"comexa/internal/domain/carga"
	"comexa/internal/domain/despacho"
	"comexa/internal/domain/documento"
	"comexa/internal/domain/liquidacion"
	"comexa/internal/domain/reports"
	"comexa/internal/infrastructure/auth"
	v1 "comexa/internal/infrastructure/http/v1"
	"comexa/internal/infrastructure/http/v1/middleware"
	"comexa/internal/infrastructure/storage/postgres"
	"comexa/internal/infrastructure/storage/postgres/carga_repo"
	"comexa/internal/infrastructure/storage/postgres/despacho_repo"
	"comexa/internal/infrastructure/storage/postgres/documento_repo"
	"comexa/internal/infrastructure/storage/postgres/liquidacion_repo"
	"comexa/internal/infrastructure/storage/postgres/report_repo"
	"comexa/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting comexa server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	capabilities := postgres.NewCapabilities(txManager)
	log.Infow("schema capabilities probed", "soft_delete", capabilities.SoftDelete(ctx))

	// --- Audit trail ---
	trail, err := postgres.NewSeguimientoWriter(txManager)
	if err != nil {
		log.Fatalw("failed to initialize seguimiento writer", "error", err)
	}

	// --- Repositories ---
	despachoRepo := despacho_repo.NewRepo(txManager, capabilities)
	allocator := despacho_repo.NewNumerador(txManager)
	cargaRepo := carga_repo.NewRepo(txManager)
	documentoRepo := documento_repo.NewRepo(txManager)
	liquidacionRepo := liquidacion_repo.NewRepo(txManager)
	reportRepo := report_repo.NewRepo(txManager, capabilities)

	// --- Services ---
	despachoService := despacho.NewService(despachoRepo, allocator, txManager, trail)
	liquidacionService := liquidacion.NewService(liquidacionRepo, txManager, trail)
	cargaService := carga.NewService(cargaRepo, txManager, trail)
	documentoService := documento.NewService(documentoRepo, txManager, trail)
	reportsService := reports.NewService(reportRepo)

	// --- Authentication ---
	var tokenValidator middleware.TokenValidator
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		tokenValidator = auth.NewJWTService(auth.JWTConfig{
			Secret: secret,
			Issuer: getEnv("JWT_ISSUER", "comexa"),
		})
	} else {
		log.Warn("JWT_SECRET not set, authentication disabled")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Capabilities:   capabilities,
		Logger:         log,
		TokenValidator: tokenValidator,

		DespachoService:    despachoService,
		LiquidacionService: liquidacionService,
		CargaService:       cargaService,
		DocumentoService:   documentoService,
		ReportsService:     reportsService,

		Trail: trail,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
