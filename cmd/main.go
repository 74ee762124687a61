package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/adapters/cache"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/adapters/http/api"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/adapters/leetcode"
	service "github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/app"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/config"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/inference"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/logger"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	metrics.Init()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Shared TTL cache: Redis-backed when configured, in-process otherwise.
	store, err := buildCache(cfg)
	if err != nil {
		log.Error(ctx, "failed to build cache", logger.Error(err))
		return
	}

	// Trained artifacts load once at startup; the process refuses to serve
	// without them.
	engine, err := inference.Load(cfg.ScalerPath, cfg.ModelPath)
	if err != nil {
		log.Error(ctx, "failed to load model artifacts",
			logger.String("model", cfg.ModelPath),
			logger.String("scaler", cfg.ScalerPath),
			logger.Error(err),
		)
		return
	}
	log.Info(ctx, "model and scaler loaded",
		logger.String("model", cfg.ModelPath),
		logger.String("scaler", cfg.ScalerPath),
	)

	client := leetcode.New(store,
		leetcode.WithGraphQLURL(cfg.GraphQLURL),
		leetcode.WithConcurrency(cfg.RemoteConcurrency),
		leetcode.WithTimeout(time.Duration(cfg.RemoteTimeoutSeconds)*time.Second),
		leetcode.WithLogger(log.Named("leetcode")),
	)

	svc := service.New(
		service.WithDataSource(client),
		service.WithEngine(engine),
		service.WithMaxRank(cfg.MaxRank),
		service.WithMaxUsernameLength(cfg.MaxUsernameLength),
		service.WithLogger(log.Named("predictor")),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, cfg.AllowedOrigins)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildCache selects the cache variant from config.
func buildCache(cfg *config.Config) (cache.Cache, error) {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cfg.RedisURL == "" {
		return cache.NewMemoryCache(ttl)
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisCache(redis.NewClient(opts), ttl)
}
