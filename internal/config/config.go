package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App    AppConfig    `toml:"app"`
	LLM    LLMConfig    `toml:"llm"`
	Upload UploadConfig `toml:"upload"`
	Chat   ChatConfig   `toml:"chat"`
	CORS   CORSConfig   `toml:"cors"`
	Redis  RedisConfig  `toml:"redis"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type LLMConfig struct {
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	SummaryModel string `toml:"summary_model"`
}

type UploadConfig struct {
	MaxSizeMB int `toml:"max_size_mb"`
}

type ChatConfig struct {
	SummarizeEvery int `toml:"summarize_every"`
	KeepRecent     int `toml:"keep_recent"`
	RecentWindow   int `toml:"recent_window"`
	MaxReplyTokens int `toml:"max_reply_tokens"`
}

type CORSConfig struct {
	Origins []string `toml:"origins"`
}

// RedisConfig enables the conversation history cache when Addr is set.
// An empty Addr keeps the service fully self-contained.
type RedisConfig struct {
	Addr                   string `toml:"addr"`
	Password               string `toml:"password"`
	DB                     int    `toml:"db"`
	HistoryTTLSeconds      int    `toml:"history_ttl_seconds"`
	HistoryDirtyTTLSeconds int    `toml:"history_dirty_ttl_seconds"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "ipodeck",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		LLM: LLMConfig{
			BaseURL:      "https://api.openai.com/v1",
			APIKey:       "",
			Model:        "gpt-4o-mini",
			SummaryModel: "gpt-4o-mini",
		},
		Upload: UploadConfig{
			MaxSizeMB: 20,
		},
		Chat: ChatConfig{
			SummarizeEvery: 6,
			KeepRecent:     2,
			RecentWindow:   10,
			MaxReplyTokens: 1000,
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
		Redis: RedisConfig{
			Addr:                   "",
			Password:               "",
			DB:                     0,
			HistoryTTLSeconds:      60,
			HistoryDirtyTTLSeconds: 5,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.SummaryModel = getEnv("LLM_SUMMARY_MODEL", cfg.LLM.SummaryModel)

	cfg.Upload.MaxSizeMB = getEnvAsInt("UPLOAD_MAX_SIZE_MB", cfg.Upload.MaxSizeMB)

	cfg.Chat.SummarizeEvery = getEnvAsInt("CHAT_SUMMARIZE_EVERY", cfg.Chat.SummarizeEvery)
	cfg.Chat.KeepRecent = getEnvAsInt("CHAT_KEEP_RECENT", cfg.Chat.KeepRecent)
	cfg.Chat.RecentWindow = getEnvAsInt("CHAT_RECENT_WINDOW", cfg.Chat.RecentWindow)
	cfg.Chat.MaxReplyTokens = getEnvAsInt("CHAT_MAX_REPLY_TOKENS", cfg.Chat.MaxReplyTokens)

	if raw, ok := os.LookupEnv("CORS_ORIGINS"); ok && raw != "" {
		var origins []string
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		if len(origins) > 0 {
			cfg.CORS.Origins = origins
		}
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.HistoryTTLSeconds = getEnvAsInt("REDIS_HISTORY_TTL_SECONDS", cfg.Redis.HistoryTTLSeconds)
	cfg.Redis.HistoryDirtyTTLSeconds = getEnvAsInt("REDIS_HISTORY_DIRTY_TTL_SECONDS", cfg.Redis.HistoryDirtyTTLSeconds)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
