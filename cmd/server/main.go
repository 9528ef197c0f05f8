package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filmhaus/payment-service/internal/application/services"
	"github.com/filmhaus/payment-service/internal/config"
	"github.com/filmhaus/payment-service/internal/infrastructure/auth"
	"github.com/filmhaus/payment-service/internal/infrastructure/persistence/postgres"
	"github.com/filmhaus/payment-service/internal/infrastructure/stripe"
	"github.com/filmhaus/payment-service/internal/interfaces/rest/handlers"
	"github.com/filmhaus/payment-service/internal/interfaces/rest/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payment service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	paymentRepo := postgres.NewPaymentRepository(db)

	stripeClient := stripe.NewClient(cfg.Stripe)
	processorClient := stripe.NewRetryClient(stripeClient, cfg.Retry)
	webhookVerifier := stripe.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)

	createService := services.NewCreateService(paymentRepo, processorClient, logger)
	refundService := services.NewRefundService(paymentRepo, processorClient, logger)
	webhookService := services.NewWebhookService(paymentRepo, logger)

	h := handlers.NewPaymentHandler(
		createService,
		refundService,
		webhookService,
		webhookVerifier,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, middleware.Auth(tokenVerifier))

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
