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

	"github.com/code-with-shadow/adhunik-art/api/controllers"
	"github.com/code-with-shadow/adhunik-art/api/routes"
	"github.com/code-with-shadow/adhunik-art/internal/catalog"
	"github.com/code-with-shadow/adhunik-art/internal/checkout"
	"github.com/code-with-shadow/adhunik-art/internal/orders"
	"github.com/code-with-shadow/adhunik-art/pkg/config"
	"github.com/code-with-shadow/adhunik-art/pkg/db"
	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
	"github.com/code-with-shadow/adhunik-art/pkg/metrics"
	"github.com/code-with-shadow/adhunik-art/pkg/migrate"
	"github.com/code-with-shadow/adhunik-art/pkg/paypal"
	"github.com/code-with-shadow/adhunik-art/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "adhunik-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Features.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fatal(ctx, logg, "database init failed", err)
	}
	defer dbClient.Close()

	if cfg.Features.UseSQLite {
		// goose migrations target postgres; sqlite is a dev/test convenience.
		if err := dbClient.DB().AutoMigrate(&models.Painting{}, &models.Order{}); err != nil {
			fatal(ctx, logg, "sqlite automigrate failed", err)
		}
	} else if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		fatal(ctx, logg, "migrations failed", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		fatal(ctx, logg, "redis init failed", err)
	}
	defer redisClient.Close()

	paypalClient, err := paypal.NewClient(ctx, cfg.PayPal, logg)
	if err != nil {
		fatal(ctx, logg, "paypal init failed", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	counters := metrics.NewCheckout(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	catalogSvc, err := catalog.NewService(catalogRepo, logg)
	if err != nil {
		fatal(ctx, logg, "catalog service init failed", err)
	}
	ordersSvc, err := orders.NewService(ordersRepo, logg)
	if err != nil {
		fatal(ctx, logg, "orders service init failed", err)
	}
	checkoutSvc, err := checkout.NewService(dbClient, catalogRepo, ordersRepo, paypalClient, redisClient, counters, logg)
	if err != nil {
		fatal(ctx, logg, "checkout service init failed", err)
	}

	healthCtrl, err := controllers.NewHealth(dbClient, logg)
	if err != nil {
		fatal(ctx, logg, "health controller init failed", err)
	}
	paintingsCtrl, err := controllers.NewPaintings(catalogSvc, logg)
	if err != nil {
		fatal(ctx, logg, "paintings controller init failed", err)
	}
	ordersCtrl, err := controllers.NewOrders(ordersSvc, logg)
	if err != nil {
		fatal(ctx, logg, "orders controller init failed", err)
	}
	checkoutCtrl, err := controllers.NewCheckout(checkoutSvc, logg)
	if err != nil {
		fatal(ctx, logg, "checkout controller init failed", err)
	}

	handler := routes.New(cfg.JWT, routes.Controllers{
		Health:    healthCtrl,
		Paintings: paintingsCtrl,
		Orders:    ordersCtrl,
		Checkout:  checkoutCtrl,
	}, registry, logg)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "api server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(ctx, logg, "server stopped", err)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
	logg.Info(ctx, "api server stopped")
}

func fatal(ctx context.Context, logg *logger.Logger, msg string, err error) {
	logg.Error(ctx, msg, err)
	os.Exit(1)
}
