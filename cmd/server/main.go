package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/discovery"
	"github.com/khoahotran/devconnector/adapters/event"
	httpAdapter "github.com/khoahotran/devconnector/adapters/http"
	"github.com/khoahotran/devconnector/adapters/media_storage"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/application/service"
	accountUC "github.com/khoahotran/devconnector/internal/application/usecase/account"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start DevConnector API Server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, cfg.App.Name)
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Databases
	if err := persistence.RunMigrations(cfg.DB.MigrationsDir, cfg.DB.DSN, appLogger); err != nil {
		appLogger.Fatal("Cannot migrate Postgres", err)
	}
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	mongoClient, mongoDB, err := persistence.NewMongoDatabase(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect MongoDB", err)
	}
	defer mongoClient.Disconnect(context.Background())
	if err := persistence.EnsureIndexes(ctx, mongoDB); err != nil {
		appLogger.Fatal("Cannot create MongoDB indexes", err)
	}

	// Redis is optional: without it projections are read straight from Postgres.
	projectionCache, closeCache := newProjectionCache(ctx, cfg, appLogger)
	defer closeCache()

	// Kafka is optional as well; events are dropped when it is not configured.
	var publisher service.EventPublisher
	if kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger); err != nil {
		appLogger.Warn("Kafka disabled", zap.Error(err))
	} else {
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	profileRepo := persistence.NewMongoProfileRepo(mongoDB, appLogger)
	postRepo := persistence.NewMongoPostRepo(mongoDB)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	projector := profileUC.NewProjector(userRepo, projectionCache, appLogger)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, projector, publisher, appLogger)
	entryUseCase := profileUC.NewEntryUseCase(profileRepo, projector, publisher, appLogger)
	deleteAccountUseCase := profileUC.NewDeleteAccountUseCase(profileRepo, postRepo, userRepo, projector, publisher, appLogger)

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		JWT:         jwtSvc,
		Logger:      appLogger,
		Metrics:     httpAdapter.NewMetrics(),
		CORSOrigins: cfg.App.CORSOrigins,
		Auth: httpAdapter.NewAuthHandler(
			authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger),
			authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger),
			authUC.NewCurrentUserUseCase(userRepo),
			appLogger,
		),
		User: httpAdapter.NewUserHandler(
			accountUC.NewUploadAvatarUseCase(userRepo, projectionCache, uploader, appLogger),
			appLogger,
		),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, entryUseCase, deleteAccountUseCase, appLogger),
		Post: httpAdapter.NewPostHandler(
			postUC.NewCreatePostUseCase(postRepo, userRepo, appLogger),
			postUC.NewGetPostUseCase(postRepo),
			postUC.NewListPostsUseCase(postRepo),
			postUC.NewDeletePostUseCase(postRepo, appLogger),
			appLogger,
		),
	})

	registry, err := discovery.NewServiceRegistry(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init service discovery", err)
	}
	if registry != nil {
		if err := registry.Register(); err != nil {
			appLogger.Warn("Consul registration failed", zap.Error(err))
		} else {
			defer registry.Deregister()
		}
	}

	serve(ctx, cfg, router, appLogger)
}

func newProjectionCache(ctx context.Context, cfg config.Config, log logger.Logger) (user.ProjectionCache, func()) {
	noop := func() {}
	if cfg.Redis.Addr == "" {
		log.Warn("Redis not configured, projection cache disabled")
		return nil, noop
	}
	rdb, err := persistence.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn("Redis unavailable, projection cache disabled", zap.Error(err))
		return nil, noop
	}
	return persistence.NewRedisProjectionCache(rdb, cfg.Redis.ProjectionTTL, log), func() { _ = rdb.Close() }
}

func serve(ctx context.Context, cfg config.Config, router *gin.Engine, log logger.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}
}
