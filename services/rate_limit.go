package services

import (
	"hash/fnv"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/on-their-footsteps/footsteps_api/shared"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// RateLimitService bounds the number of requests a client may issue per
// fixed time window. Windows are derived by truncating the current UTC time
// to the window length, so a client straddling a window boundary can issue
// up to twice the limit within one window-length of real time. That is the
// documented trade-off of fixed-window counting, not a bug.
type RateLimitService struct {
	context.DefaultService

	maxRequests int
	window      time.Duration

	store *counterStore

	stopJanitor chan struct{}
}

const RATE_LIMIT_SVC = "rate_limit_svc"

const (
	defaultMaxRequests   = 100
	defaultWindowMinutes = 1

	// Entries whose window ended more than gracePeriods windows ago can
	// never satisfy another current-window lookup and are swept.
	gracePeriods = 3

	rateLimitMessage = "Rate limit exceeded. Please try again later."
)

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.maxRequests = defaultMaxRequests
	if v := os.Getenv("RATE_LIMIT_MAX_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.maxRequests = n
		}
	}

	windowMinutes := defaultWindowMinutes
	if v := os.Getenv("RATE_LIMIT_WINDOW_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			windowMinutes = n
		}
	}
	svc.window = time.Duration(windowMinutes) * time.Minute

	svc.store = newCounterStore(svc.window)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.stopJanitor = make(chan struct{})
	go svc.janitor()

	log.WithFields(log.Fields{
		"max_requests": svc.maxRequests,
		"window":       svc.window,
	}).Info("Rate limiter started")
	return nil
}

func (svc *RateLimitService) Shutdown() {
	if svc.stopJanitor != nil {
		close(svc.stopJanitor)
	}
}

// Limit is the pipeline stage. The counter is consulted and incremented
// before the route handler runs, so requests cancelled mid-flight still
// count against the client. Rejection is a plain 429 short-circuit, never
// an error for the outer handler to classify.
func (svc *RateLimitService) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := ClientIdentifier(c)

		allowed, remaining, reset := svc.store.Hit(identifier, time.Now(), svc.maxRequests)

		c.Set("X-RateLimit-Limit", strconv.Itoa(svc.maxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(reset).Seconds()) + 1
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))

			log.WithFields(log.Fields{
				"client": identifier,
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("Rate limit exceeded")

			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, rateLimitMessage, nil)
		}

		return c.Next()
	}
}

func (svc *RateLimitService) janitor() {
	ticker := time.NewTicker(svc.window)
	defer ticker.Stop()

	for {
		select {
		case <-svc.stopJanitor:
			return
		case <-ticker.C:
			evicted := svc.store.Sweep(time.Now())
			if evicted > 0 {
				log.WithField("evicted", evicted).Debug("Rate limit counters swept")
			}
		}
	}
}

// ==================== COUNTER STORE ====================

const counterShardCount = 32

// counterStore holds fixed-window counters sharded by client identifier so
// concurrent requests for different clients rarely contend on the same
// lock. The check-and-increment for one client happens entirely under its
// shard lock: two concurrent requests observing count=limit-1 cannot both
// pass.
type counterStore struct {
	window time.Duration
	shards [counterShardCount]*counterShard
}

type counterShard struct {
	mu      sync.Mutex
	entries map[string]*counterEntry
}

type counterEntry struct {
	windowStart time.Time
	count       int
}

func newCounterStore(window time.Duration) *counterStore {
	s := &counterStore{window: window}
	for i := range s.shards {
		s.shards[i] = &counterShard{entries: make(map[string]*counterEntry)}
	}
	return s
}

func (s *counterStore) shardFor(identifier string) *counterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	return s.shards[h.Sum32()%counterShardCount]
}

// Hit records one request for the identifier and reports whether it is
// allowed, how many requests remain in the window, and when the window
// resets. At most one live entry exists per identifier; an entry from an
// expired window is replaced in place rather than accumulated.
func (s *counterStore) Hit(identifier string, now time.Time, max int) (allowed bool, remaining int, reset time.Time) {
	windowStart := now.UTC().Truncate(s.window)
	reset = windowStart.Add(s.window)

	shard := s.shardFor(identifier)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry, ok := shard.entries[identifier]
	if !ok || entry.windowStart.Before(windowStart) {
		shard.entries[identifier] = &counterEntry{windowStart: windowStart, count: 1}
		return true, max - 1, reset
	}

	if entry.count >= max {
		return false, 0, reset
	}

	entry.count++
	return true, max - entry.count, reset
}

// Sweep evicts entries whose window ended long enough ago that no
// current-window lookup can ever hit them again. Entries in the current or
// recent windows are kept, so eviction can never produce a false negative.
func (s *counterStore) Sweep(now time.Time) int {
	cutoff := now.UTC().Add(-time.Duration(gracePeriods) * s.window)

	evicted := 0
	for _, shard := range s.shards {
		shard.mu.Lock()
		for id, entry := range shard.entries {
			if entry.windowStart.Add(s.window).Before(cutoff) {
				delete(shard.entries, id)
				evicted++
			}
		}
		shard.mu.Unlock()
	}
	return evicted
}

// size reports the number of live entries, for tests and stats.
func (s *counterStore) size() int {
	n := 0
	for _, shard := range s.shards {
		shard.mu.Lock()
		n += len(shard.entries)
		shard.mu.Unlock()
	}
	return n
}

// ==================== CLIENT IDENTITY ====================

// ClientIdentifier derives the rate-limit key for a request. The first
// X-Forwarded-For entry wins when present; the header is trusted
// unconditionally, which is spoofable without a trusted-proxy allowlist in
// front of this service. Falls back to the transport peer address, then to
// a fixed sentinel.
func ClientIdentifier(c *fiber.Ctx) string {
	forwarded := c.Get(fiber.HeaderXForwardedFor)
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if ip != "" {
				return ip
			}
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	remote := c.Context().RemoteAddr().String()
	if remote != "" {
		if ip, _, err := net.SplitHostPort(remote); err == nil {
			return ip
		}
		return remote
	}

	return "unknown"
}
