package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"horizon-ai-go/config"
	"horizon-ai-go/internal/cache"
	"horizon-ai-go/internal/fetcher"
	"horizon-ai-go/internal/handler"
	"horizon-ai-go/internal/logger"
	"horizon-ai-go/internal/page"
	"horizon-ai-go/internal/service"
)

func main() {
	// 加载 .env 文件（如果存在）
	envErr := godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 历史记录：优先PostgreSQL，其次Redis，否则内存
	history := newHistory(ctx, cfg)
	if c, ok := history.(io.Closer); ok {
		defer c.Close()
	}

	client := fetcher.NewAnalyzeClient(cfg.AnalyzeURL, fetcher.WithTimeout(cfg.AnalyzeTimeout))
	logger.Info("Analysis backend configured", zap.String("url", client.Endpoint()), zap.Duration("timeout", cfg.AnalyzeTimeout))

	svc := service.NewBriefingService(client, history)
	sessions := page.NewSessions(func() *page.Controller { return svc.NewController() }, cfg.SessionTTL)
	go sessions.RunJanitor(ctx, time.Minute)

	router := handler.NewRouter(
		handler.NewPageHandler(svc, sessions),
		handler.NewAPIHandler(svc),
		cfg.CORSOrigins,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server closed")
}

func newHistory(ctx context.Context, cfg *config.Config) cache.History {
	if cfg.DatabaseURL != "" {
		pg, err := cache.NewPostgresHistory(cfg.DatabaseURL)
		if err == nil {
			logger.Info("Using PostgreSQL briefing history")
			return pg
		}
		logger.Warn("Failed to connect to PostgreSQL, falling back", zap.Error(err))
	}

	if cfg.RedisURL != "" {
		rh, err := cache.NewRedisHistory(ctx, cfg.RedisURL, cfg.HistorySize)
		if err == nil {
			logger.Info("Using Redis briefing history")
			return rh
		}
		logger.Warn("Failed to connect to Redis, falling back", zap.Error(err))
	}

	logger.Info("Using memory briefing history", zap.Int("size", cfg.HistorySize))
	return cache.NewMemoryHistory(cfg.HistorySize)
}
