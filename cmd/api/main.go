package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-photo-share/internal/config"
	"github.com/go-photo-share/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-photo-share/internal/infrastructure/jwt"
	mongoinfra "github.com/go-photo-share/internal/infrastructure/mongo"
	s3infra "github.com/go-photo-share/internal/infrastructure/s3"
	"github.com/go-photo-share/internal/infrastructure/sns"
	"github.com/go-photo-share/internal/infrastructure/watermark"
	transporthttp "github.com/go-photo-share/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepo, postRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	jwtProvider := jwtinfra.NewProvider(cfg)
	if !jwtProvider.Configured() {
		slog.Warn("JWT_SECRET is not set; login and authenticated routes will answer 500")
	}

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("s3 client", "err", err)
		os.Exit(1)
	}
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)
	s3Store.EnsureBucket(ctx)

	events, err := sns.NewPublisher(ctx, cfg)
	if err != nil {
		slog.Warn("SNS publisher not available, events disabled", "err", err)
		events = sns.NopPublisher{}
	}

	wm := watermark.NewClient(cfg)
	if !wm.Enabled() {
		slog.Warn("WATERMARK_URL is not set; watermarking disabled")
	}

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		UserRepo:    userRepo,
		PostRepo:    postRepo,
		Images:      s3Store,
		JWTProvider: jwtProvider,
		Watermark:   wm,
		Events:      events,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WatermarkTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
	slog.Info("server stopped")
}

// openStore connects the configured document store, creates its tables or
// indexes, and returns the repositories plus a close function.
func openStore(ctx context.Context, cfg *config.Config) (transporthttp.UserRepository, transporthttp.PostRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
			dynamo.NewPostRepo(client, cfg.DynamoTables.Posts),
			func() {}, nil
	case config.StoreMongo:
		client, err := mongoinfra.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.Bootstrap(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				slog.Error("mongo disconnect", "err", err)
			}
		}
		return mongoinfra.NewUserRepo(db), mongoinfra.NewPostRepo(db), closeFn, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
