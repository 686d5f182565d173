package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"skincare-advisor/internal/analyzer"
	"skincare-advisor/internal/config"
	"skincare-advisor/internal/db"
	apihttp "skincare-advisor/internal/http"
	"skincare-advisor/internal/repository"
	"skincare-advisor/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var catalog repository.CatalogRepository = repository.NewMemoryCatalogRepository(repository.DefaultCatalog())
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		catalog = repository.NewPgCatalogRepository(pool)
	} else {
		logger.Info("database not configured, using built-in catalog")
	}
	recommender := service.NewRecommender(catalog, cfg.RecommendationLimit, logger)

	var client analyzer.Client
	if cfg.AnalyzerBaseURL != "" {
		remote := analyzer.NewHTTPClient(cfg.AnalyzerBaseURL, analyzer.Options{
			Timeout:    cfg.AnalyzerTimeout,
			MaxRetries: cfg.AnalyzerMaxRetries,
			Backoff:    cfg.AnalyzerBackoff,
			RPS:        cfg.AnalyzerRPS,
		}, nil, logger)
		client = remote
		if !cfg.RemoteRecommender() {
			client = analyzer.WithLocalRecommender(remote, recommender.Recommend)
		}
	} else {
		logger.Warn("analyzer base url not configured, using simulated analysis")
		client = analyzer.NewSimulatedClient(cfg.SimulatedDelay, recommender.Recommend)
	}

	var (
		store   = service.NewMemoryStateStore(cfg.SessionTTL)
		uploads = service.NewMemoryRateLimiter(cfg.UploadRateWindow, cfg.UploadRateMax)
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, keeping sessions in memory", zap.Error(err))
		} else {
			store = service.NewRedisStateStore(redisClient, cfg.SessionTTL)
			uploads = service.NewRedisRateLimiter(redisClient, cfg.UploadRateWindow, cfg.UploadRateMax, cfg.UploadRateFailOpen, logger)
		}
		cancel()
	}

	tokens := service.NewSessionTokenService(cfg.SessionSecret, cfg.SessionTTL)
	if cfg.SessionSecret == "" {
		logger.Warn("session secret not configured, tokens will not survive a restart")
	}

	analysisSvc := service.NewAnalysisService(store, client, cfg.MaxImageBytes, logger)
	router := apihttp.NewRouter(
		logger,
		apihttp.NewSessionHandler(logger, store, tokens),
		apihttp.NewAnalysisHandler(logger, store, analysisSvc),
		apihttp.NewTrackerHandler(logger, store, cfg.MaxImageBytes),
		tokens,
		uploads,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
