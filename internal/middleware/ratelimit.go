package middleware

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"
    "golang.org/x/time/rate"

    "github.com/iliyamo/quic/internal/config"
)

// bucketScript refills and takes one token atomically.  State lives in a
// hash so concurrent instances share the same bucket.
var bucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// decision is the outcome of taking one token from a bucket.
type decision struct {
    allowed   bool
    remaining int64
    retry     time.Duration
}

// limiter takes a token for key.  A non-nil error means the backend could
// not answer and the request should pass.
type limiter interface {
    take(c echo.Context, key string) (decision, error)
}

// NewTokenBucket guards the credential endpoints against brute forcing.
// Buckets live in Redis when rdb is set so all instances share them;
// otherwise a per-process limiter from x/time/rate is used.  Blocked
// requests get a 429 through the central error handler.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log logrus.FieldLogger) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    var lim limiter
    if rdb != nil {
        lim = &redisLimiter{cfg: cfg, rdb: rdb}
    } else {
        lim = newLocalLimiter(cfg)
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            d, err := lim.take(c, key)
            if err != nil {
                log.WithError(err).WithField("key", key).Warn("rate limit backend failed, allowing request")
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }
            if !d.allowed {
                secs := int(math.Ceil(d.retry.Seconds()))
                if secs < 1 {
                    secs = 1
                }
                h.Set("Retry-After", strconv.Itoa(secs))
                if cfg.Debug {
                    log.WithField("key", key).Info("rate limit exceeded")
                }
                return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts, try again later")
            }
            return next(c)
        }
    }
}

type redisLimiter struct {
    cfg config.RateLimitConfig
    rdb *redis.Client
}

func (l *redisLimiter) take(c echo.Context, key string) (decision, error) {
    args := []interface{}{
        time.Now().UnixMilli(),
        l.cfg.Capacity,
        l.cfg.RefillTokens,
        l.cfg.RefillInterval.Milliseconds(),
        int64(l.cfg.TTL / time.Second),
    }
    vals, err := bucketScript.Run(c.Request().Context(), l.rdb, []string{key}, args...).Result()
    if err != nil {
        return decision{}, err
    }
    arr, ok := vals.([]interface{})
    if !ok || len(arr) != 3 {
        return decision{}, fmt.Errorf("unexpected script result %#v", vals)
    }
    return decision{
        allowed:   asInt64(arr[0]) == 1,
        remaining: asInt64(arr[1]),
        retry:     time.Duration(asInt64(arr[2])) * time.Millisecond,
    }, nil
}

// localLimiter keeps one rate.Limiter per key.  Idle buckets are dropped
// once they have been unused for longer than the configured TTL.
type localLimiter struct {
    cfg       config.RateLimitConfig
    every     rate.Limit
    now       func() time.Time
    mu        sync.Mutex
    buckets   map[string]*localBucket
    lastSweep time.Time
}

type localBucket struct {
    lim  *rate.Limiter
    seen time.Time
}

func newLocalLimiter(cfg config.RateLimitConfig) *localLimiter {
    per := cfg.RefillInterval
    if cfg.RefillTokens > 1 {
        per /= time.Duration(cfg.RefillTokens)
    }
    return &localLimiter{
        cfg:     cfg,
        every:   rate.Every(per),
        now:     time.Now,
        buckets: make(map[string]*localBucket),
    }
}

func (l *localLimiter) take(_ echo.Context, key string) (decision, error) {
    now := l.now()
    l.mu.Lock()
    defer l.mu.Unlock()

    if now.Sub(l.lastSweep) > l.cfg.TTL {
        for k, b := range l.buckets {
            if now.Sub(b.seen) > l.cfg.TTL {
                delete(l.buckets, k)
            }
        }
        l.lastSweep = now
    }

    b, ok := l.buckets[key]
    if !ok {
        b = &localBucket{lim: rate.NewLimiter(l.every, l.cfg.Capacity)}
        l.buckets[key] = b
    }
    b.seen = now

    r := b.lim.ReserveN(now, 1)
    if delay := r.DelayFrom(now); delay > 0 {
        r.CancelAt(now)
        return decision{allowed: false, retry: delay}, nil
    }
    remaining := int64(b.lim.TokensAt(now))
    if remaining < 0 {
        remaining = 0
    }
    return decision{allowed: true, remaining: remaining}, nil
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int32: return int64(t)
    case int: return int64(t)
    case float64: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }
    uid := userKey(c)
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}
