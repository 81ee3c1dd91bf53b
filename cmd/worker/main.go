package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/media_storage"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/application/service"
	accountUC "github.com/khoahotran/devconnector/internal/application/usecase/account"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env).With(zap.String("component", "worker"))
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnector Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, cfg.App.Name+"-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	var cache user.ProjectionCache
	if cfg.Redis.Addr != "" {
		rdb, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer rdb.Close()
		cache = persistence.NewRedisProjectionCache(rdb, cfg.Redis.ProjectionTTL, appLogger)
	}

	processAccountEventUC := accountUC.NewProcessAccountEventUseCase(uploader, cache, appLogger)

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Kafka brokers not configured", nil)
	}
	consumer := event.NewProfileEventConsumer(cfg, appLogger)
	defer consumer.Close()

	err = consumer.Run(ctx, func(ctx context.Context, ev service.ProfileEvent) error {
		return processAccountEventUC.Execute(ctx, ev)
	})
	if err != nil {
		appLogger.Fatal("Consumer stopped", err)
	}
	appLogger.Info("Worker stopped")
}
