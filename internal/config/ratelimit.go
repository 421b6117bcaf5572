package config

import "time"

// RateLimitConfig drives the Redis token-bucket limiter applied to the
// auth endpoints. Capacity is the burst size; one token refills every
// RefillInterval. TTL controls how long idle buckets live in Redis.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillInterval time.Duration
    TTL            time.Duration
    Prefix         string
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, clamping nonsensical values to safe minimums.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    if min := 5 * cfg.RefillInterval; cfg.TTL < min {
        cfg.TTL = min
    }
    return cfg
}
