package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-lending-go/config"
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending-go/lending/coordination"
	"github.com/AntonStoeckl/library-lending-go/lending/notification"
	"github.com/AntonStoeckl/library-lending-go/lending/service"
	"github.com/AntonStoeckl/library-lending-go/lending/sweeper"
)

const instrumentationName = "lendingd"

// lendingRuntime is the wired lending system with everything that has to be released on shutdown.
type lendingRuntime struct {
	store      openedStore
	service    *service.Service
	dispatcher *notification.Dispatcher
	closers    []func()
	logger     *slog.Logger
}

func buildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*lendingRuntime, error) {
	rt := &lendingRuntime{logger: logger}

	var contextualLogger eventstore.ContextualLogger = logger
	if cfg.OTelLogsEnabled {
		contextualLogger = oteladapters.NewSlogBridgeLogger(instrumentationName)
	}

	metrics := oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))

	store, err := openStore(ctx, cfg, logger, storeObservability{
		logger:           logger,
		contextualLogger: contextualLogger,
		metrics:          metrics,
	})
	if err != nil {
		return nil, err
	}
	rt.store = store
	rt.closers = append(rt.closers, store.close)

	handlers, err := service.NewHandlers(store, cfg.Policy(), service.Observability{
		MetricsCollector: metrics,
		TracingCollector: oteladapters.NewTracingCollector(otel.Tracer(instrumentationName)),
		ContextualLogger: contextualLogger,
	})
	if err != nil {
		rt.close()
		return nil, err
	}

	sender, err := newSender(cfg, logger)
	if err != nil {
		rt.close()
		return nil, err
	}
	if closer, ok := sender.(interface{ Close() error }); ok {
		rt.closers = append(rt.closers, func() { _ = closer.Close() })
	}

	rt.dispatcher = notification.NewDispatcher(sender, logger, notification.WithBufferSize(cfg.NotificationBuffer))

	sweeperOpts := []sweeper.Option{
		sweeper.WithLogger(logger),
		sweeper.WithInterval(cfg.SweepInterval),
		sweeper.WithDueSoonWindow(cfg.DueSoonWindow),
	}

	if client := config.NewRedisClient(ctx, cfg); client != nil {
		sweeperOpts = append(sweeperOpts,
			sweeper.WithLocker(coordination.NewRedisLocker(client)),
			sweeper.WithDeduper(coordination.NewRedisDeduper(client)),
		)
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		logger.InfoContext(ctx, "sweeper coordinates through redis", "addr", cfg.RedisAddr)
	} else {
		sweeperOpts = append(sweeperOpts, sweeper.WithLocker(coordination.NewMemoryLocker()))
		logger.InfoContext(ctx, "redis not available, sweeper coordinates in process")
	}

	rt.service = service.New(handlers,
		service.WithNotifier(rt.dispatcher),
		service.WithSweeperOptions(sweeperOpts...),
	)

	return rt, nil
}

func newSender(cfg config.Config, logger *slog.Logger) (notification.Sender, error) {
	if cfg.AMQPURL == "" {
		return notification.NewLogSender(logger), nil
	}

	publisher, err := notification.NewRabbitMQPublisher(cfg.AMQPURL, cfg.NotificationQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to connect notification publisher: %w", err)
	}

	return publisher, nil
}

// shutdown drains the notification buffer and then releases all connections.
func (rt *lendingRuntime) shutdown(ctx context.Context) {
	if rt.dispatcher != nil {
		if err := rt.dispatcher.Close(ctx); err != nil {
			rt.logger.WarnContext(ctx, "notifications not fully delivered", "error", err.Error())
		}
	}

	rt.close()
}

func (rt *lendingRuntime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}

	rt.closers = nil
}
