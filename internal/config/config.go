package config

import (
	"os"
	"strconv"
	"strings"
)

// defaultJWTSecret matches the fallback the original deployment shipped with.
// It is insecure; operators MUST set JWT_SECRET in any real environment.
const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Port        int
	Environment string
	DatabaseURL string
	JWTSecret   string

	AllowedOrigins []string

	RateLimitMax           int
	RateLimitWindowMinutes int
}

func Load() Config {
	cfg := Config{
		Port:                   5000,
		Environment:            "development",
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              defaultJWTSecret,
		RateLimitMax:           1000,
		RateLimitWindowMinutes: 15,
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			cfg.Port = p
		}
	}

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	if cfg.IsProduction() {
		cfg.RateLimitMax = 100
	}
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitMax = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitWindowMinutes = n
		}
	}

	cfg.AllowedOrigins = []string{
		"http://localhost:3000",
		"http://localhost:3001",
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	return cfg
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
