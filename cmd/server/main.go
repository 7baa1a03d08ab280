package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpapi"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/shopapi"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		logger.L().Fatal("failed to build app", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L().Info("storefront listening",
			zap.String("addr", srv.Addr),
			zap.String("api", cfg.BaseURL+"/v2/api/"+cfg.APIPath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	logger.L().Info("server exited")
}

// buildApp wires the storefront. The returned cleanup releases the ledger and producer.
func buildApp(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	client := shopapi.NewClient(cfg.BaseURL, cfg.APIPath, cfg.RequestTimeout)

	var closers []func() error

	var repo order.Repository = order.NopRepository{}
	if cfg.LedgerEnabled() {
		database, err := db.NewDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, database.Close)
		repo = order.NewRepository(database)
	} else {
		logger.L().Info("receipts ledger disabled")
	}

	var publisher order.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		closers = append(closers, producer.Close)
		publisher = producer
	} else {
		logger.L().Info("order events disabled")
	}

	productSvc := product.NewService(client)
	cartSvc := cart.NewService(client)
	orderSvc := order.NewService(client, cartSvc, repo, publisher)

	limiter := middleware.NewRateLimiter(ctx)
	router := httpapi.NewRouter(
		httpapi.NewHandler(productSvc, cartSvc, orderSvc),
		httpapi.RouterConfig{
			Timeout: cfg.RequestTimeout,
			Middleware: []func(http.Handler) http.Handler{
				middleware.CORS(cfg.CORSOrigin),
				limiter.Middleware,
			},
			Upstream: func() any { return client.Stats() },
		},
	)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.L().Warn("cleanup failed", zap.Error(err))
			}
		}
	}

	return router, cleanup, nil
}
