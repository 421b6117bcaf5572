package config

import "time"

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled. TTL bounds entry lifetime; MaxBodyBytes caps how large a
// response body may be before it is skipped.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      getenv("CACHE_ENABLED", "true") == "true",
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        Prefix:       getenv("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

func envDur(key string, def time.Duration) time.Duration {
    v := getenv(key, "")
    if v == "" {
        return def
    }
    if d, err := time.ParseDuration(v); err == nil && d > 0 {
        return d
    }
    return def
}
