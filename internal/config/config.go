package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"mysolution-web/internal/api"
)

type Config struct {
	Addr               string
	APIBaseURL         string
	StaticDir          string
	RedisAddr          string
	SettingsTTL        time.Duration
	UnreadPollInterval time.Duration
	HTTPTimeout        time.Duration
}

// Load reads the environment, after merging a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .env not loaded: %v", err)
	}

	cfg := &Config{
		Addr:       getenv("ADDR", ":8080"),
		APIBaseURL: getenv("API_BASE_URL", api.DefaultBaseURL),
		StaticDir:  getenv("STATIC_DIR", "dist"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
	}

	var err error
	if cfg.SettingsTTL, err = duration("SETTINGS_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.UnreadPollInterval, err = duration("UNREAD_POLL_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = duration("HTTP_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.UnreadPollInterval <= 0 {
		return nil, fmt.Errorf("UNREAD_POLL_INTERVAL must be positive, got %s", cfg.UnreadPollInterval)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
