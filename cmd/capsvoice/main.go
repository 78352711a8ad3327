package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/config"
	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/handler"
	"github.com/Ari-Han-t/CAPS/internal/infra/cache"
	"github.com/Ari-Han-t/CAPS/internal/infra/client"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/infra/resilience"
	"github.com/Ari-Han-t/CAPS/internal/infra/speech"
	"github.com/Ari-Han-t/CAPS/internal/realtime"
	"github.com/Ari-Han-t/CAPS/internal/service"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func main() {
	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("caps_api_url", cfg.CommandAPIURL),
		zap.String("fraud_api_url", cfg.FraudAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Float64("daily_limit", cfg.DailyLimit),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "caps-voice")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	merchantCache := cache.NewKeyed[domain.MerchantScoreData](domain.NormalizeVPA)

	// --- Resilience ---
	commandCB := resilience.NewCircuitBreaker("command")
	fraudCB := resilience.NewCircuitBreaker("fraud")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	commandClient := client.NewCommandClient(httpClient, cfg.CommandAPIURL, commandCB)
	fraudClient := client.NewFraudClient(httpClient, cfg.FraudAPIURL, fraudCB)

	// --- Event stream ---
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := realtime.NewHub(cfg.WSMaxClients, metrics, logger)
	go hub.Run(ctx)

	// --- Session ---
	capture := speech.NewRemote()
	sess := service.NewSession(service.SessionDeps{
		Commands:      commandClient,
		Fraud:         fraudClient,
		Capture:       capture,
		MerchantCache: merchantCache,
		Publisher:     hub,
		DailyLimit:    cfg.DailyLimit,
		Metrics:       metrics,
		Logger:        logger,
	})

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Session:  sess,
		Sink:     capture,
		Events:   http.HandlerFunc(hub.HandleWebSocket),
		Breakers: []*gobreaker.CircuitBreaker{commandCB, fraudCB},
		Metrics:  metrics,
		Logger:   logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
