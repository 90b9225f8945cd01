package config

import (
	"log"
	"os"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	// CronSpec drives the blog cache refresh job.
	CronSpec string

	// NewsAPIBase is the CryptoCompare-compatible news API root.
	NewsAPIBase string

	// BoardSalt is appended to board post passwords before hashing.
	BoardSalt string
	// AdminAuthCode promotes a nickname to the canonical admin name.
	// Empty disables the admin path entirely.
	AdminAuthCode string

	// Optional global Basic Auth (health check stays open).
	BasicAuthUser string
	BasicAuthPass string
}

func Load() *Config {
	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "9000"),
		PostgresDSN:   getEnv("POSTGRES_DSN", "host=localhost user=painori password=painori dbname=painori port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		CronSpec:      getEnv("CRON_SPEC", "*/30 * * * *"),
		NewsAPIBase:   getEnv("NEWS_API_BASE", "https://min-api.cryptocompare.com"),
		BoardSalt:     getEnv("BOARD_SALT", "painori_board"),
		AdminAuthCode: getEnv("ADMIN_AUTH_CODE", ""),
		BasicAuthUser: getEnv("APP_BASIC_USER", ""),
		BasicAuthPass: getEnv("APP_BASIC_PASS", ""),
	}

	log.Printf("config loaded: port=%s cron=%s newsapi=%s", cfg.AppPort, cfg.CronSpec, cfg.NewsAPIBase)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
