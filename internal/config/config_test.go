package config

import (
    "testing"
    "time"
)

func TestLoadSQLite(t *testing.T) {
    t.Setenv("APP_ENV", "dev")
    t.Setenv("APP_PORT", "8080")
    t.Setenv("SESSION_SECRET", "s")
    t.Setenv("DB_DRIVER", "sqlite3")
    t.Setenv("DB_NAME", "quic.db")
    t.Setenv("SESSION_TTL", "2h")
    t.Setenv("BCRYPT_COST", "12")

    cfg := Load()
    if cfg.DBDriver != "sqlite3" || cfg.DBName != "quic.db" {
        t.Errorf("Unexpected database settings: %+v", cfg)
    }
    if cfg.SessionTTL != 2*time.Hour {
        t.Errorf("Expected 2h session TTL, got %s", cfg.SessionTTL)
    }
    if cfg.BcryptCost != 12 {
        t.Errorf("Expected bcrypt cost 12, got %d", cfg.BcryptCost)
    }
    if cfg.SessionCookie != "quic.sid" {
        t.Errorf("Expected default cookie name, got %s", cfg.SessionCookie)
    }
    if cfg.IsProd() {
        t.Error("Expected dev not to be prod")
    }
}

func TestLoadRateLimitConfig(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    t.Setenv("RATE_LIMIT_KEY_STRATEGY", "IP")

    cfg := LoadRateLimitConfig()
    if !cfg.Enabled {
        t.Error("Expected rate limiting enabled by default")
    }
    if cfg.Capacity != 1 {
        t.Errorf("Expected capacity clamped to 1, got %d", cfg.Capacity)
    }
    if cfg.TTL != 5*time.Minute {
        t.Errorf("Expected TTL raised to 5 refill intervals, got %s", cfg.TTL)
    }
    if cfg.KeyStrategy != "ip" {
        t.Errorf("Expected lowercased strategy, got %s", cfg.KeyStrategy)
    }
}

func TestLoadRateLimitOverrides(t *testing.T) {
    t.Setenv("RATE_LIMIT_ENABLED", "off")
    t.Setenv("RATE_LIMIT_CAPACITY", "3")
    t.Setenv("RATE_LIMIT_BURST", "20")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "5")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
    t.Setenv("RATE_LIMIT_TTL", "not-a-duration")
    t.Setenv("RATE_LIMIT_DEBUG", "maybe")

    cfg := LoadRateLimitConfig()
    if cfg.Enabled {
        t.Error("Expected \"off\" to disable rate limiting")
    }
    if cfg.Capacity != 20 {
        t.Errorf("Expected burst to override capacity, got %d", cfg.Capacity)
    }
    if cfg.RefillTokens != 1 || cfg.RefillInterval != 2*time.Second {
        t.Errorf("Expected one token every 2s, got %d every %s", cfg.RefillTokens, cfg.RefillInterval)
    }
    if cfg.TTL != 10*time.Minute {
        t.Errorf("Expected default TTL for an unparsable value, got %s", cfg.TTL)
    }
    if cfg.Debug {
        t.Error("Expected an unknown boolean to keep the default")
    }
}

func TestLoadActivityConfig(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://broker:5672/")

    cfg := LoadActivityConfig()
    if cfg.Enabled {
        t.Error("Expected activity events disabled by default")
    }
    if cfg.URL != "amqp://broker:5672/" {
        t.Errorf("Expected AMQP_URL fallback, got %s", cfg.URL)
    }
    if cfg.Queue != "quic.activity" {
        t.Errorf("Expected default queue, got %s", cfg.Queue)
    }
}
