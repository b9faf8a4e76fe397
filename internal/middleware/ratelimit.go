package middleware

import (
    "context"
    "errors"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/joyas-pwa/joyas-api/internal/config"
)

// bucketScript refills by whole intervals, then takes one token.  It returns
// {taken, tokens_left, wait_ms}.
var bucketScript = redis.NewScript(`
local now, cap, per, every, ttl =
    tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local b = redis.call('HMGET', KEYS[1], 'n', 'at')
local n = tonumber(b[1]) or cap
local at = tonumber(b[2]) or now

local steps = math.floor(math.max(0, now - at) / every)
if steps > 0 then
    n = math.min(cap, n + steps * per)
    at = at + steps * every
end

local taken, wait = 0, 0
if n >= 1 then
    taken = 1
    n = n - 1
else
    wait = math.max(0, at + every - now)
end

redis.call('HSET', KEYS[1], 'n', n, 'at', at)
redis.call('EXPIRE', KEYS[1], ttl)
return { taken, n, wait }
`)

// decision is one bucket outcome.
type decision struct {
    allowed bool
    left    int64
    wait    time.Duration
}

type bucket struct {
    cfg config.RateLimitConfig
    rdb *redis.Client
}

func (b bucket) take(ctx context.Context, key string, now time.Time) (decision, error) {
    res, err := bucketScript.Run(ctx, b.rdb, []string{key},
        now.UnixMilli(),
        b.cfg.Capacity,
        b.cfg.RefillTokens,
        b.cfg.RefillInterval.Milliseconds(),
        int64(b.cfg.TTL/time.Second),
    ).Int64Slice()
    if err != nil {
        return decision{}, err
    }
    return parseDecision(res)
}

func parseDecision(res []int64) (decision, error) {
    if len(res) != 3 {
        return decision{}, errUnexpectedReply
    }
    return decision{allowed: res[0] == 1, left: res[1], wait: time.Duration(res[2]) * time.Millisecond}, nil
}

var errUnexpectedReply = errors.New("unexpected rate limiter reply")

// RateLimit throttles the login endpoints per client with a Redis token
// bucket.  It is a pass-through when disabled or when rdb is nil, and it
// fails open on Redis errors.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    log = log.Named("ratelimit")
    b := bucket{cfg: cfg, rdb: rdb}

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg, c)
            d, err := b.take(c.Request().Context(), key, time.Now())
            if err != nil {
                log.Warn("limiter unavailable; allowing request", zap.String("key", key), zap.Error(err))
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.left, 10))
            if d.allowed {
                return next(c)
            }

            secs := retryAfter(d.wait)
            h.Set("Retry-After", strconv.Itoa(secs))
            log.Info("request throttled", zap.String("key", key), zap.Duration("wait", d.wait))
            return c.JSON(http.StatusTooManyRequests, map[string]any{
                "detail":      "too many attempts, try again later",
                "error_type":  "RATE_LIMITED",
                "retry_after": secs,
            })
        }
    }
}

// retryAfter rounds a wait up to whole seconds for the Retry-After header.
func retryAfter(wait time.Duration) int {
    if wait <= 0 {
        return 0
    }
    return int(math.Ceil(wait.Seconds()))
}

// rateKey scopes the bucket.  Callers are anonymous on the throttled
// routes, so the client address is always part of the key; "ip_route"
// (the default) gives login and register separate buckets.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    parts := []string{cfg.Prefix, "ip", ip}
    if !strings.EqualFold(cfg.KeyStrategy, "ip") {
        parts = append(parts, "route", c.Request().Method+" "+c.Path())
    }
    return strings.Join(parts, ":")
}
