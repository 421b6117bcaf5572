package config

// Redis backs the response cache on the questions feed and the rate
// limiter on the auth endpoints. Both features degrade gracefully:
// when no Redis server can be reached at startup this constructor
// returns nil and the middleware turn into pass-throughs.

import (
    "context"
    "os"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from environment
// variables: REDIS_ADDR (host:port, default localhost:6379),
// REDIS_PASSWORD, REDIS_DB. The returned client may be nil if a
// connection cannot be established.
func NewRedisClient() *redis.Client {
    addr := os.Getenv("REDIS_ADDR")
    if addr == "" {
        addr = "localhost:6379"
    }
    dbNum := 0
    if s := os.Getenv("REDIS_DB"); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            dbNum = n
        }
    }
    client := redis.NewClient(&redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       dbNum,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
