package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kushal-tech/houseofneelam/internal/api"
	"github.com/kushal-tech/houseofneelam/internal/cart"
	"github.com/kushal-tech/houseofneelam/internal/checkout"
	"github.com/kushal-tech/houseofneelam/internal/handlers"
	"github.com/kushal-tech/houseofneelam/internal/payment"
	"github.com/kushal-tech/houseofneelam/internal/platform/config"
	"github.com/kushal-tech/houseofneelam/internal/platform/metrics"
	"github.com/kushal-tech/houseofneelam/internal/platform/observability"
	"github.com/kushal-tech/houseofneelam/internal/search"
	"github.com/kushal-tech/houseofneelam/internal/session"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront").With(zap.String("instance", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close error", zap.Error(err))
		}
	}()

	cartStore := cart.NewRedisStore(redisClient)
	remote := api.New(cfg.API.BaseURL, cfg.API.Timeout)

	sessionManager, err := session.NewManager(cfg.Session)
	if err != nil {
		logger.Fatal("failed to initialise session manager", zap.Error(err))
	}
	bridge, err := session.NewBridge(remote)
	if err != nil {
		logger.Fatal("failed to initialise session bridge", zap.Error(err))
	}

	scriptLoader, err := checkout.NewScriptLoader(cfg.Payment.WidgetScript)
	if err != nil {
		logger.Fatal("failed to initialise script loader", zap.Error(err))
	}

	strategy, err := buildStrategy(cfg, remote, scriptLoader)
	if err != nil {
		logger.Fatal("failed to initialise payment strategy", zap.Error(err))
	}

	checkoutService, err := checkout.NewService(checkout.ServiceDeps{
		API:      remote,
		Strategy: strategy,
		Logger:   eventLogger(logger.Named("checkout")),
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout service", zap.Error(err))
	}

	resolver, err := payment.NewResolver(payment.ResolverDeps{
		API:          remote,
		Orders:       remote,
		PollInterval: cfg.Payment.PollInterval,
		MaxAttempts:  cfg.Payment.PollAttempts,
		Logger:       eventLogger(logger.Named("payment")),
	})
	if err != nil {
		logger.Fatal("failed to initialise payment resolver", zap.Error(err))
	}

	suggester, err := search.NewSuggester(search.SuggesterDeps{
		API:              remote,
		DebounceInterval: cfg.Search.DebounceInterval,
		MinQueryLength:   cfg.Search.MinQueryLength,
		Logger:           eventLogger(logger.Named("search")),
	})
	if err != nil {
		logger.Fatal("failed to initialise search suggester", zap.Error(err))
	}

	health := handlers.NewHealthHandlers(map[string]handlers.ReadinessCheck{
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
			metrics.Middleware,
			sessionManager.Middleware,
		),
		handlers.WithHealthHandlers(health),
		handlers.WithMetricsHandler(metrics.Handler()),
		handlers.WithCatalogRoutes(handlers.NewCatalogHandlers(remote).Routes),
		handlers.WithCartRoutes(handlers.NewCartHandlers(cartStore).Routes),
		handlers.WithCheckoutRoutes(handlers.NewCheckoutHandlers(checkoutService, resolver, scriptLoader, cartStore, remote).Routes),
		handlers.WithOrderRoutes(handlers.NewOrderHandlers(remote).Routes),
		handlers.WithWishlistRoutes(handlers.NewWishlistHandlers(remote).Routes),
		handlers.WithReviewRoutes(handlers.NewReviewHandlers(remote).Routes),
		handlers.WithAuthRoutes(handlers.NewAuthHandlers(bridge, sessionManager, remote).Routes),
		handlers.WithSearchRoutes(handlers.NewSearchHandlers(remote, suggester).Routes),
		handlers.WithAdminRoutes(handlers.NewAdminHandlers(remote, sessionManager).Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("house of neelam storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildStrategy(cfg config.Config, remote *api.Client, loader *checkout.ScriptLoader) (checkout.PaymentStrategy, error) {
	switch cfg.Payment.Flow {
	case config.FlowEmbeddedWidget:
		return checkout.NewEmbeddedWidgetStrategy(remote, loader, "/api/v1/checkout/script", "")
	default:
		return checkout.NewHostedRedirectStrategy(remote)
	}
}

// eventLogger adapts a zap logger to the event callback the services accept.
func eventLogger(logger *zap.Logger) func(ctx context.Context, event string, fields map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zapFields := make([]zap.Field, 0, len(fields))
		for key, value := range fields {
			zapFields = append(zapFields, zap.Any(key, value))
		}
		logger.Info(event, zapFields...)
	}
}
