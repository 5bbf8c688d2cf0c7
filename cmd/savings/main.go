package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"savings/internal/amqp"
	"savings/internal/backend"
	"savings/internal/cli"
	apphttp "savings/internal/http"
	"savings/internal/log"
	"savings/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.ComponentApp, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(log.ComponentApp, cfg.LogLevel)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	stores, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateStore(context.Background(), backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize params store", err, "backend", cfg.DataBackend)
	}
	if stores.Cleanup != nil {
		defer func() {
			if err := stores.Cleanup(); err != nil {
				logger.Error("Failed to close params store", "error", err)
			}
		}()
	}

	// Analytics are optional: without a broker projections are simply not
	// published.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, projection analytics disabled", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Projection analytics enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	projections := services.NewProjectionService(services.ProjectionOptions{
		Mode:      cfg.Rounding(),
		MaxMonths: cfg.MaxMonths,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Publisher: publisher,
	})

	var ready apphttp.ReadyFunc
	if stores.Pinger != nil {
		ready = stores.Pinger.Ping
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Projections:        projections,
		Params:             services.NewParamsService(stores.Store),
		Logger:             logger.WithComponent(log.ComponentHTTP),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              ready,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, srv.Shutdown)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting savings server", "port", cfg.Port, "backend", cfg.DataBackend, "rounding", cfg.Rounding())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// a failed listener cancels gctx without a signal
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		cli.Fatal(logger, "Server error", err, "port", cfg.Port)
	}
	<-done
	logger.Info("Server stopped gracefully")
}
