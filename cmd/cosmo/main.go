package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/config"
	"github.com/Dev-Redad/cosmo-v1/internal/engine"
	"github.com/Dev-Redad/cosmo-v1/internal/handler"
	"github.com/Dev-Redad/cosmo-v1/internal/service"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Instantiate stores.
	lockStore := store.NewLockStore()
	sessionStore := store.NewSessionStore()
	accountStore := store.NewAccountStore()
	productStore := store.NewProductStore()
	orderStore := store.NewOrderStore()
	paylogStore := store.NewPayLogStore()

	// Engine.
	rnd := engine.NewRand(randomSeed())
	parser := engine.NewNotificationParser()
	ledger := engine.NewAmountLedger(lockStore, rnd)
	selector := engine.NewAccountSelector(accountStore, rnd, config.ReferenceTZ)

	// Collaborators: HTTP delivery endpoint when configured, logging
	// stand-ins otherwise.
	var deliverer engine.Deliverer
	if cfg.DeliveryURL != "" {
		deliverer = service.NewWebhookDeliverer(cfg.DeliveryURL, cfg.DeliveryTimeout)
	} else {
		deliverer = service.NewLogDeliverer(logger)
	}
	messenger := service.NewLogMessenger(logger)

	// Sweeper and settler.
	sweeper := engine.NewSweeper(cfg.SweepInterval, sessionStore, lockStore, messenger, logger)
	settler := engine.NewSettler(
		parser,
		sessionStore,
		productStore,
		orderStore,
		paylogStore,
		ledger,
		selector,
		deliverer,
		messenger,
		cfg.CleanupDelay,
		logger,
	)

	// Services.
	purchaseSvc := service.NewPurchaseService(
		productStore,
		sessionStore,
		orderStore,
		ledger,
		selector,
		sweeper,
		deliverer,
		messenger,
		cfg.PayWindow,
		cfg.GracePeriod,
		cfg.CleanupDelay,
		cfg.DefaultUpiID,
		cfg.DefaultPayeeName,
		logger,
	)
	adminSvc := service.NewAdminService(accountStore, selector)
	productSvc := service.NewProductService(productStore)
	accessSvc := service.NewAccessService(orderStore, logger)

	// Router.
	statsH := handler.NewStatsHandler(sessionStore, lockStore, paylogStore, productStore, sweeper)
	router := handler.NewRouter(purchaseSvc, settler, adminSvc, productSvc, accessSvc, statsH, logger)

	// Start expiry sweeper with cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops sweeper).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}

// randomSeed seeds the engine's random source from the OS entropy pool,
// falling back to the clock if it is unavailable.
func randomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
