package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"monetraq/internal/backend"
	"monetraq/internal/cli"
	"monetraq/internal/events"
	apphttp "monetraq/internal/http"
	"monetraq/internal/ledger"
	"monetraq/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateStore(ctx, backendConfig)
	if err != nil {
		logger.Error("failed to initialize storage backend", log.FieldError, err, log.FieldBackend, string(backendConfig.Type))
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("storage cleanup failed", log.FieldError, err)
			}
		}()
	}

	var sink ledger.EventSink
	if cfg.AMQPURL != "" {
		publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("failed to connect to message broker", log.FieldError, err)
			os.Exit(1)
		}
		defer publisher.Close()
		sink = publisher
	}

	store := ledger.New(result.Store, sink, logger, cfg.LocaleTag())
	store.Hydrate(ctx)
	defer store.Flush()

	srv := apphttp.NewServer(":"+cfg.Port, store, logger, apphttp.Options{
		Locale:   cfg.Locale,
		Currency: cfg.Currency,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting monetraq server",
			"port", cfg.Port,
			log.FieldBackend, string(backendConfig.Type))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
