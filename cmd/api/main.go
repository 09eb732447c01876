package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/laundry-backend/api/routes"
	"github.com/angelmondragon/laundry-backend/internal/address"
	"github.com/angelmondragon/laundry-backend/internal/auth"
	"github.com/angelmondragon/laundry-backend/internal/customers"
	"github.com/angelmondragon/laundry-backend/internal/orders"
	"github.com/angelmondragon/laundry-backend/internal/promo"
	"github.com/angelmondragon/laundry-backend/internal/reports"
	"github.com/angelmondragon/laundry-backend/internal/users"
	"github.com/angelmondragon/laundry-backend/pkg/auth/oidc"
	"github.com/angelmondragon/laundry-backend/pkg/auth/session"
	"github.com/angelmondragon/laundry-backend/pkg/config"
	"github.com/angelmondragon/laundry-backend/pkg/db"
	"github.com/angelmondragon/laundry-backend/pkg/env"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/maps"
	"github.com/angelmondragon/laundry-backend/pkg/metrics"
	"github.com/angelmondragon/laundry-backend/pkg/migrate"
	"github.com/angelmondragon/laundry-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to load timezone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var (
		registry     *prometheus.Registry
		orderMetrics *metrics.OrderMetrics
	)
	if cfg.FeatureFlags.Metrics {
		registry = metrics.NewRegistry()
		orderMetrics = metrics.NewOrderMetrics(registry)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	var google *oidc.Verifier
	if cfg.OIDC.Enabled() {
		google, err = oidc.NewVerifier(context.Background(), cfg.OIDC)
		if err != nil {
			logg.Error(context.Background(), "failed to create google verifier", err)
			os.Exit(1)
		}
	}
	authParams := auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	}
	if google != nil {
		authParams.Google = google
	}
	authService, err := auth.NewService(authParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{Repo: usersRepo, PasswordConfig: cfg.Password})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      ordersRepo,
		Tx:        dbClient,
		Customers: customersService,
		Couriers:  usersRepo,
		Metrics:   orderMetrics,
		Logger:    logg,
		Location:  loc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	promoService, err := promo.NewService(promo.NewRepository(dbClient.DB()), nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create promo service", err)
		os.Exit(1)
	}

	var addressService address.Service
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
		addressService = address.NewService(mapsClient, cfg.GoogleMaps.Region)
	}

	addr := ":" + env.Lookup(cfg.App.Port, "PORT")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"timezone":     loc.String(),
		"google_login": google != nil,
		"maps":         addressService != nil,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:    cfg,
			Logger:    logg,
			Location:  loc,
			Registry:  registry,
			DB:        dbClient,
			Redis:     redisClient,
			Sessions:  sessionManager,
			Auth:      authService,
			Orders:    ordersService,
			Users:     usersService,
			Customers: customersService,
			Reports:   reportsService,
			Promo:     promoService,
			Address:   addressService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
