package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dukerupert/vidar/internal"
	"github.com/dukerupert/vidar/internal/billing"
	"github.com/dukerupert/vidar/internal/cache"
	"github.com/dukerupert/vidar/internal/email"
	"github.com/dukerupert/vidar/internal/handler"
	"github.com/dukerupert/vidar/internal/handler/webhook"
	"github.com/dukerupert/vidar/internal/identity"
	"github.com/dukerupert/vidar/internal/middleware"
	"github.com/dukerupert/vidar/internal/postgres"
	"github.com/dukerupert/vidar/internal/router"
	"github.com/dukerupert/vidar/internal/routes"
	"github.com/dukerupert/vidar/internal/service"
	"github.com/dukerupert/vidar/internal/telemetry"
)

const metricsNamespace = "vidar"

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Migrations run over database/sql; the application itself uses pgx
	// directly through the pool.
	logger.Info("running migrations")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := internal.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migrations failed: %w", err)
	}
	sqlDB.Close()

	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database pool failed: %w", err)
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	var listingCache cache.Cache = cache.NewNoop()
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, metricsNamespace)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisCache.Close()
		listingCache = redisCache
		logger.Info("listing cache enabled", "addr", cfg.Redis.Addr)
	}

	stripeCfg := billing.StripeConfig{
		APIKey:        cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	}
	provider, err := billing.NewStripeProvider(stripeCfg)
	if err != nil {
		return fmt.Errorf("stripe provider failed: %w", err)
	}
	if stripeCfg.IsTestMode() {
		logger.Warn("stripe is in test mode")
	}

	verifier := identity.NewHTTPVerifier(cfg.Identity.URL, cfg.Identity.APIKey)

	var sender email.Sender = email.NewNoop()
	if cfg.SMTP.Host != "" {
		smtpSender, err := email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return fmt.Errorf("smtp sender failed: %w", err)
		}
		sender = smtpSender
		logger.Info("owner notifications enabled", "host", cfg.SMTP.Host)
	}

	telemetry.Init(metricsNamespace)
	metrics := middleware.NewMetrics(metricsNamespace)

	checkoutSvc, err := service.NewCheckoutService(store, provider, service.CheckoutConfig{
		PriceID: cfg.Stripe.PriceID,
		BaseURL: cfg.BaseURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("checkout service failed: %w", err)
	}
	reconciler := service.NewReconciler(store, provider, service.ReconcilerConfig{
		CheckoutActivates: cfg.Stripe.CheckoutActivates,
	}, logger)
	profileSvc := service.NewProfileService(store, logger)
	listingSvc := service.NewListingService(store, store, listingCache, logger)
	quoteSvc := service.NewQuoteService(store, store, store, sender, logger)
	reviewSvc := service.NewReviewService(store, store, logger)

	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		router.Recovery(logger),
		router.Logger(logger),
		metrics.Middleware,
		middleware.RateLimit(middleware.DefaultRateLimiterConfig()),
	)

	routes.RegisterPublicRoutes(r, routes.PublicDeps{
		Handler:        handler.NewPublicHandler(listingSvc, quoteSvc, reviewSvc),
		MetricsHandler: metrics.Handler(),
	})
	routes.RegisterAccountRoutes(r, routes.AccountDeps{
		Handler:  handler.NewAccountHandler(profileSvc, checkoutSvc, listingSvc, quoteSvc, reviewSvc),
		Verifier: verifier,
	})
	routes.RegisterWebhookRoutes(r, routes.WebhookDeps{
		StripeHandler: webhook.NewStripeHandler(provider, reconciler, store, cfg.Stripe.WebhookSecret, logger),
	})
	routes.RegisterHookRoutes(r, routes.HookDeps{
		Handler: handler.NewHookHandler(profileSvc, cfg.Identity.SignupHookSecret),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
