package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"savings/internal/amqp"
	"savings/internal/cli"
	"savings/internal/log"
	"savings/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.ComponentWorker, "info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(log.ComponentWorker, cfg.LogLevel)

	logger.Info("Starting savings-worker")

	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "AMQP_URL is required for the analytics worker", errors.New("missing AMQP_URL"))
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	analytics := worker.NewAnalyticsWorker(repo)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeProjections(gctx, analytics.HandleProjection)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return analytics.ReportStats(gctx, cfg.StatsInterval)
	})

	logger.Info("Worker started", "queue", cfg.AMQPQueue, "stats_interval", cfg.StatsInterval, "db_path", cfg.SQLiteDBPath)

	if err := g.Wait(); err != nil {
		cli.Fatal(logger, "Worker stopped with error", err)
	}
	<-done
	logger.Info("Worker stopped gracefully")
}
