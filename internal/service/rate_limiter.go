package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"skincare-advisor/internal/metrics"
)

// RateLimiter limita los envios de imagenes por clave. Si rechaza, devuelve
// cuanto falta para que la clave vuelva a tener cupo.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

// UploadKey arma la clave del limitador: por sesion e IP cuando hay sesion,
// solo por IP en los endpoints sin sesion.
func UploadKey(sessionID, clientIP string) string {
	ip := strings.TrimSpace(clientIP)
	if ip == "" {
		return ""
	}
	if sid := strings.TrimSpace(sessionID); sid != "" {
		return "sess:" + sid + ":" + ip
	}
	return "ip:" + ip
}

type memoryRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryRateLimiter permite max envios por ventana con un token bucket por clave.
func NewMemoryRateLimiter(window time.Duration, max int) RateLimiter {
	return newMemoryRateLimiter(window, max)
}

func newMemoryRateLimiter(window time.Duration, max int) *memoryRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(window / time.Duration(max)),
		burst:    max,
		idle:     window * 2,
		now:      time.Now,
	}
}

func (l *memoryRateLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	entry, ok := l.limiters[key]
	if !ok {
		l.cleanup(now)
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	r := entry.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		metrics.RecordUploadDecision("memory", "denied")
		return false, delay
	}
	metrics.RecordUploadDecision("memory", "allowed")
	return true, 0
}

func (l *memoryRateLimiter) cleanup(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idle {
			delete(l.limiters, k)
		}
	}
}

// Ventana fija: el primer envio abre la ventana; devuelve {conteo, ms restantes}.
const uploadWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`

var errLimiterReply = errors.New("unexpected rate limiter reply")

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisRateLimiter struct {
	client   redisEvaler
	window   time.Duration
	max      int
	prefix   string
	failOpen bool
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRedisRateLimiter comparte la ventana entre replicas. failOpen decide que
// hacer cuando Redis no responde.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int, failOpen bool, logger *zap.Logger) RateLimiter {
	if client == nil {
		return nil
	}
	return newRedisRateLimiter(client, window, max, failOpen, logger)
}

func newRedisRateLimiter(client redisEvaler, window time.Duration, max int, failOpen bool, logger *zap.Logger) *redisRateLimiter {
	if window < time.Second {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisRateLimiter{
		client:   client,
		window:   window,
		max:      max,
		prefix:   "skincare:uploads:",
		failOpen: failOpen,
		timeout:  500 * time.Millisecond,
		logger:   logger,
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, 0
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := l.client.Eval(ctx, uploadWindowScript, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err == nil && len(res) != 2 {
		err = errLimiterReply
	}
	if err != nil {
		decision := "fail_closed"
		if l.failOpen {
			decision = "fail_open"
		}
		l.logger.Warn("upload rate limiter unavailable",
			zap.String("key", key),
			zap.String("decision", decision),
			zap.Error(err),
		)
		metrics.RecordUploadDecision("redis", decision)
		if l.failOpen {
			return true, 0
		}
		return false, l.window
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	if count > int64(l.max) {
		metrics.RecordUploadDecision("redis", "denied")
		return false, ttl
	}
	metrics.RecordUploadDecision("redis", "allowed")
	return true, 0
}
