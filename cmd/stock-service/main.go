package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/cinestock/cinestock-backend/internal/stock/events"
	"github.com/cinestock/cinestock-backend/internal/stock/handler"
	"github.com/cinestock/cinestock-backend/internal/stock/repository"
	"github.com/cinestock/cinestock-backend/internal/stock/service"
	"github.com/cinestock/cinestock-backend/pkg/clock"
	"github.com/cinestock/cinestock-backend/pkg/config"
	"github.com/cinestock/cinestock-backend/pkg/database"
	"github.com/cinestock/cinestock-backend/pkg/docstore"
	"github.com/cinestock/cinestock-backend/pkg/httputil"
	"github.com/cinestock/cinestock-backend/pkg/logger"
	"github.com/cinestock/cinestock-backend/pkg/messaging"
	"github.com/cinestock/cinestock-backend/pkg/permissions"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("stock-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("stock-service", cfg.Server.Environment)
	log.Info().Msg("starting Stock Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Document store (single documents table)
	store := docstore.NewPostgres(db)
	if err := store.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate documents table")
	}

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewStockEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	itemRepo := repository.NewItemRepository(store)
	movementRepo := repository.NewMovementRepository(store)
	pickingRepo := repository.NewPickingRepository(store)

	// Initialize service
	stockService := service.NewStockService(itemRepo, movementRepo, pickingRepo, publisher, clock.Real(), log)

	// Initialize handlers
	itemHandler := handler.NewItemHandler(stockService, log)
	transactionHandler := handler.NewTransactionHandler(stockService, log)
	reportHandler := handler.NewReportHandler(stockService, log)
	exportHandler := handler.NewExportHandler(stockService, log)
	pickingHandler := handler.NewPickingHandler(stockService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID", "X-User-Name", "X-User-Role"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httputil.ActorMiddleware) // Extract actor identity from headers

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "stock-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/stock", func(r chi.Router) {
		// Item routes
		r.Route("/items", func(r chi.Router) {
			r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/", itemHandler.List)
			r.With(httputil.RequireCapability(permissions.CapStockWrite)).Post("/", itemHandler.Create)
			r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/{name}", itemHandler.Get)
			r.With(httputil.RequireCapability(permissions.CapStockWrite)).Put("/{name}", itemHandler.Update)
			r.With(httputil.RequireCapability(permissions.CapStockDelete)).Delete("/{name}", itemHandler.Delete)
		})

		// Transactions and movement history
		r.With(httputil.RequireCapability(permissions.CapStockAdjust)).Post("/transactions", transactionHandler.Apply)
		r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/movements", transactionHandler.Movements)
		r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/movements/history", transactionHandler.History)

		// Reports
		r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/dashboard/stats", reportHandler.Dashboard)
		r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/alerts/low-stock", reportHandler.LowStock)
		r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/alerts/expiring", reportHandler.Expiring)

		// CSV reports
		r.Route("/reports", func(r chi.Router) {
			r.Use(httputil.RequireCapability(permissions.CapStockExport))
			r.Get("/inventory.csv", exportHandler.ExportInventory)
			r.Get("/movements.csv", exportHandler.ExportMovements)
			r.Get("/expiring.csv", exportHandler.ExportExpiring)
			r.Get("/low-stock.csv", exportHandler.ExportLowStock)
		})

		// Picking lists
		r.Route("/pickings", func(r chi.Router) {
			r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/", pickingHandler.List)
			r.With(httputil.RequireCapability(permissions.CapStockWrite)).Post("/", pickingHandler.Create)
			r.With(httputil.RequireCapability(permissions.CapStockRead)).Get("/{id}", pickingHandler.Get)
			r.With(httputil.RequireCapability(permissions.CapStockAdjust)).Post("/{id}/complete", pickingHandler.Complete)
			r.With(httputil.RequireCapability(permissions.CapStockWrite)).Post("/{id}/cancel", pickingHandler.Cancel)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
