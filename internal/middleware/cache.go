package middleware

import (
    "bytes"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/peerview/peerview-api/internal/config"
)

// cachedResponse is the envelope stored in Redis: enough to replay a
// successful response byte-for-byte.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"contentType"`
    Body        []byte `json:"body"`
}

// captureWriter tees the response body into a buffer while forwarding
// it to the client, up to a size limit.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.buf.Len()+len(b) <= cw.limit {
        cw.buf.Write(b)
    }
    return cw.ResponseWriter.Write(b)
}

func cacheKey(prefix string, c echo.Context) string {
    sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
    return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache caches successful GET responses in Redis for the
// configured TTL. Intended for the questions feed, where repeated
// identical reads dominate. A nil Redis client or disabled config
// yields a pass-through middleware.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKey(cfg.Prefix, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var cr cachedResponse
                if json.Unmarshal(bs, &cr) == nil {
                    c.Response().Header().Set(echo.HeaderContentType, cr.ContentType)
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cr.Status)
                    _, _ = c.Response().Write(cr.Body)
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK && cw.buf.Len() > 0 {
                cr := cachedResponse{
                    Status:      cw.status,
                    ContentType: c.Response().Header().Get(echo.HeaderContentType),
                    Body:        cw.buf.Bytes(),
                }
                if payload, err := json.Marshal(cr); err == nil {
                    _ = rdb.SetEx(ctx, key, payload, cfg.TTL).Err()
                }
            }
            return nil
        }
    }
}
