package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config keeps runtime settings for the service.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Report   ReportConfig
	Log      LogConfig
}

type AppConfig struct {
	Env      string `env:"APP_ENV" env-default:"dev"`
	SeedDemo bool   `env:"SEED_DEMO" env-default:"false"`
}

type HTTPConfig struct {
	Port         string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DBConfig struct {
	// Path to the SQLite file backing the document store.
	Path string `env:"DATABASE_URL" env-default:"megtodo.db"`
}

type RedisConfig struct {
	// Addr is "host:port". Empty means streak state is kept in memory.
	Addr     string `env:"REDIS_ADDR" env-default:""`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type TelegramConfig struct {
	// Token is optional; without it notifications go to the log.
	Token  string `env:"TELEGRAM_TOKEN" env-default:""`
	ChatID int64  `env:"TELEGRAM_CHAT_ID" env-default:"0"`
}

type ReportConfig struct {
	// StatsInterval drives the periodic statistics/streak pass, so day
	// rollovers are picked up even without user traffic.
	StatsInterval time.Duration `env:"STATS_INTERVAL" env-default:"1h"`
	// SummaryAt is the local HH:MM time of the daily summary notification.
	// Empty disables the summary.
	SummaryAt string `env:"SUMMARY_AT" env-default:""`
}

type LogConfig struct {
	// Dir enables a rotated JSON log file next to console output.
	Dir string `env:"LOG_DIR" env-default:""`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID == 0 {
		return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}
