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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/timbermill-backend/api/routes"
	"github.com/angelmondragon/timbermill-backend/internal/admins"
	"github.com/angelmondragon/timbermill-backend/internal/analytics"
	"github.com/angelmondragon/timbermill-backend/internal/auth"
	"github.com/angelmondragon/timbermill-backend/internal/contacts"
	"github.com/angelmondragon/timbermill-backend/internal/woods"
	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/angelmondragon/timbermill-backend/pkg/db"
	"github.com/angelmondragon/timbermill-backend/pkg/instance"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
	"github.com/angelmondragon/timbermill-backend/pkg/metrics"
	"github.com/angelmondragon/timbermill-backend/pkg/migrate"
	"github.com/angelmondragon/timbermill-backend/pkg/redis"
	"github.com/angelmondragon/timbermill-backend/pkg/storage/backend"
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
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(reg)

	uploads, err := backend.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}

	params := routes.RouterParams{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Storage:        uploads.Store,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Uploads:        uploads.Handler,
	}

	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		params.Redis = redisClient
		params.Idempotency = redisClient
	} else {
		logg.Warn(ctx, "redis not configured; idempotency replay disabled")
	}

	adminRepo := admins.NewRepository(dbClient.DB())
	woodRepo := woods.NewRepository(dbClient.DB())
	contactRepo := contacts.NewRepository(dbClient.DB())

	if params.Auth, err = auth.NewService(auth.ServiceParams{
		AdminRepo:      adminRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	}); err != nil {
		return err
	}
	if params.Woods, err = woods.NewService(woods.ServiceParams{
		Repo:    woodRepo,
		Storage: uploads.Store,
		Logger:  logg,
		Uploads: httpMetrics,
	}); err != nil {
		return err
	}
	if params.Contacts, err = contacts.NewService(contacts.ServiceParams{Repo: contactRepo}); err != nil {
		return err
	}
	if params.Analytics, err = analytics.NewService(analytics.ServiceParams{Woods: woodRepo, Contacts: contactRepo}); err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"uploads":  uploads.Name,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logg.Info(ctx, "api server stopped")
	return nil
}
