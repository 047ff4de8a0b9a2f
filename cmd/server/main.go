package main

import (
	"alcyxob/fitness-admin/internal/api"
	"alcyxob/fitness-admin/internal/config"
	"alcyxob/fitness-admin/internal/guard"
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/media"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/repository/memory"
	"alcyxob/fitness-admin/internal/repository/mongo"
	"alcyxob/fitness-admin/internal/repository/postgres"
	"alcyxob/fitness-admin/internal/service"
	"alcyxob/fitness-admin/internal/session"
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting fitness admin console", "address", cfg.Server.Address, "db_driver", cfg.Database.Driver)

	if cfg.JWT.Secret == "" {
		logger.Error("jwt.secret is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// --- Database ---
	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Error("could not open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Storage ---
	var fileStorage storage.FileStorage
	var memoryFiles *storage.MemoryStorage
	if cfg.Storage.Driver == config.DriverMemory {
		memoryFiles = storage.NewMemoryStorage("/media")
		fileStorage = memoryFiles
		logger.Warn("using in-memory media storage; uploads are lost on restart")
	} else {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			logger.Error("failed to initialize s3 storage", "error", err)
			os.Exit(1)
		}
	}

	// --- Sessions ---
	var revocations session.RevocationStore
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("could not reach redis", "address", cfg.Redis.Address, "error", err)
			os.Exit(1)
		}
		revocations = session.NewRedisRevocations(rdb)
		logger.Info("session revocations stored in redis", "address", cfg.Redis.Address)
	} else {
		revocations = session.NewMemoryRevocations()
	}
	sessions := session.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration, revocations)

	// --- Services ---
	locks := lock.NewTable()
	uploader := media.NewUploader(fileStorage, cfg.Storage.BucketOrDefault())

	svc := api.Services{
		Guard:         guard.New(sessions, store.Profiles),
		Auth:          service.NewAuthService(store.Accounts, store.Profiles, sessions, cfg.Auth.BootstrapAdmins),
		Dashboard:     service.NewDashboardService(store),
		Categories:    service.NewCategoryService(store.Categories, locks),
		Exercises:     service.NewExerciseService(store.Exercises, uploader, locks),
		Workouts:      service.NewWorkoutService(store.Workouts, store.WorkoutExercises, store.Exercises, locks),
		Videos:        service.NewVideoService(store.Videos, uploader, locks),
		Profiles:      service.NewProfileService(store.Profiles, locks),
		MediaFiles:    memoryFiles,
		Metrics:       promhttp.Handler(),
		SecureCookies: cfg.Server.SecureCookies,
	}

	if strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(svc, logger)

	key, err := csrfKey(cfg.Server.CSRFKey)
	if err != nil {
		logger.Error("invalid csrf key", "error", err)
		os.Exit(1)
	}
	handler := api.CSRF(key, cfg.Server.SecureCookies, cfg.Server.TrustedOrigins)(router)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exiting")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// openStore connects the configured database driver. The returned func releases it.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Name)
		idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(idxCtx, db); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return mongo.NewStore(db), func() {
			if err := mongo.DisconnectDB(client); err != nil {
				slog.Error("failed to disconnect mongodb", "error", err)
			}
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return postgres.NewStore(pool), pool.Close, nil

	case config.DriverMemory:
		slog.Warn("using in-memory database; data is lost on restart")
		return memory.NewStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// csrfKey returns the configured 32-byte key, or a random one that only lives for this process.
func csrfKey(configured string) ([]byte, error) {
	if configured != "" {
		if len(configured) != 32 {
			return nil, fmt.Errorf("server.csrf_key must be 32 bytes, got %d", len(configured))
		}
		return []byte(configured), nil
	}
	slog.Warn("server.csrf_key not set; generating a random key, forms break across restarts")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
