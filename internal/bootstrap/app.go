package bootstrap

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ipodeck/internal/ai"
	"ipodeck/internal/cache"
	"ipodeck/internal/config"
	redisClient "ipodeck/internal/platform/redis"
	"ipodeck/internal/store"
)

type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	LLM           *ai.Client
	Redis         *redisv9.Client
	HistoryCache  *cache.HistoryCache
	Analyses      *store.AnalysisStore
	Conversations *store.ConversationStore

	StartedAt time.Time
}

func New(ctx context.Context, logger *zap.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("llm api key is not configured, analysis and chat calls will fail")
	}

	app := &App{
		Config:        cfg,
		Logger:        logger,
		LLM:           ai.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey),
		Analyses:      store.NewAnalysisStore(),
		Conversations: store.NewConversationStore(),
		StartedAt:     time.Now(),
	}

	if cfg.RedisEnabled() {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
		app.HistoryCache = cache.NewHistoryCache(
			redisCli,
			time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
		)
	}

	return app, nil
}

func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}
