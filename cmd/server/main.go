package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velocity-exotics/crm-platform/modules"
	"github.com/velocity-exotics/crm-platform/pkg/application"
	"github.com/velocity-exotics/crm-platform/pkg/configuration"
	"github.com/velocity-exotics/crm-platform/pkg/eventbus"
	"github.com/velocity-exotics/crm-platform/pkg/metrics"
	"github.com/velocity-exotics/crm-platform/pkg/middleware"
	"github.com/velocity-exotics/crm-platform/pkg/server"
)

func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	pool, err := pgxpool.New(context.Background(), conf.Database.Opts)
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.WithError(err).Fatal("database is unreachable")
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})

	app.RegisterMiddleware(
		middleware.LogRequests(logger),
		middleware.WithPool(pool),
		middleware.ProvideTenant(),
		middleware.ProvideUser(),
	)

	if err := modules.Load(app); err != nil {
		logger.WithError(err).Fatal("failed to register modules")
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv := server.NewHTTPServer(app)
	logger.WithField("address", conf.SocketAddress).Info("server listening")
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
