package services

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

func newTestStore(window time.Duration) *counterStore {
	return newCounterStore(window)
}

func TestCounterStore_AllowsUpToLimit(t *testing.T) {
	store := newTestStore(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC)

	for i := 0; i < 5; i++ {
		allowed, remaining, _ := store.Hit("10.0.0.1", now, 5)
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if remaining != 5-(i+1) {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, 5-(i+1), remaining)
		}
	}

	allowed, remaining, reset := store.Hit("10.0.0.1", now, 5)
	if allowed {
		t.Error("request over limit should be rejected")
	}
	if remaining != 0 {
		t.Errorf("expected remaining 0 on rejection, got %d", remaining)
	}

	wantReset := time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC)
	if !reset.Equal(wantReset) {
		t.Errorf("expected reset %v, got %v", wantReset, reset)
	}
}

func TestCounterStore_IndependentClients(t *testing.T) {
	store := newTestStore(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		store.Hit("10.0.0.1", now, 3)
	}
	if allowed, _, _ := store.Hit("10.0.0.1", now, 3); allowed {
		t.Error("exhausted client should be rejected")
	}

	if allowed, _, _ := store.Hit("10.0.0.2", now, 3); !allowed {
		t.Error("a different client must not share the exhausted counter")
	}
}

func TestCounterStore_WindowRollover(t *testing.T) {
	store := newTestStore(time.Minute)
	inWindow := time.Date(2026, 3, 1, 12, 0, 59, 0, time.UTC)
	nextWindow := time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		store.Hit("10.0.0.1", inWindow, 5)
	}
	if allowed, _, _ := store.Hit("10.0.0.1", inWindow, 5); allowed {
		t.Fatal("client should be exhausted in the first window")
	}

	// A fresh window grants a fresh budget. Back to back with the previous
	// window's spend the client can burst to twice the limit, which is the
	// accepted fixed-window behavior.
	for i := 0; i < 5; i++ {
		allowed, _, _ := store.Hit("10.0.0.1", nextWindow, 5)
		if !allowed {
			t.Fatalf("request %d in the new window should be allowed", i+1)
		}
	}
	if allowed, _, _ := store.Hit("10.0.0.1", nextWindow, 5); allowed {
		t.Error("new window budget should also be bounded")
	}

	if store.size() != 1 {
		t.Errorf("rollover must replace the entry, not accumulate: size=%d", store.size())
	}
}

func TestCounterStore_ConcurrentHitsNoLostUpdates(t *testing.T) {
	store := newTestStore(time.Minute)
	now := time.Now()

	const limit = 100
	const attempts = 250

	var allowedCount int64
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if allowed, _, _ := store.Hit("10.0.0.1", now, limit); allowed {
				atomic.AddInt64(&allowedCount, 1)
			}
		}()
	}
	wg.Wait()

	if allowedCount != limit {
		t.Errorf("expected exactly %d allowed requests, got %d", limit, allowedCount)
	}
}

func TestCounterStore_ConcurrentDistinctClients(t *testing.T) {
	store := newTestStore(time.Minute)
	now := time.Now()

	var rejected int64
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a'+n%26)) + string(rune('0'+n/26))
			for j := 0; j < 10; j++ {
				if allowed, _, _ := store.Hit(id, now, 10); !allowed {
					atomic.AddInt64(&rejected, 1)
				}
			}
		}(i)
	}
	wg.Wait()

	if rejected != 0 {
		t.Errorf("no client exceeded its own limit, yet %d rejections occurred", rejected)
	}
}

func TestCounterStore_SweepEvictsOnlyStale(t *testing.T) {
	window := time.Minute
	store := newTestStore(window)

	old := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Hit("stale-client", old, 10)

	now := old.Add(10 * window)
	store.Hit("live-client", now, 10)

	evicted := store.Sweep(now)
	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if store.size() != 1 {
		t.Errorf("expected 1 live entry after sweep, got %d", store.size())
	}

	// The live entry must survive a sweep within its grace period.
	if evicted := store.Sweep(now.Add(window)); evicted != 0 {
		t.Errorf("entry inside grace period was evicted")
	}
}

func TestCounterStore_SweepKeepsCurrentWindow(t *testing.T) {
	store := newTestStore(time.Minute)
	now := time.Now()

	store.Hit("10.0.0.1", now, 2)
	store.Hit("10.0.0.1", now, 2)
	store.Sweep(now)

	// Post-sweep lookups still see the spend from this window.
	if allowed, _, _ := store.Hit("10.0.0.1", now, 2); allowed {
		t.Error("sweep must never reset a current-window counter")
	}
}

func newRateLimitTestApp(maxRequests int) *fiber.App {
	svc := &RateLimitService{
		maxRequests: maxRequests,
		window:      time.Minute,
		store:       newCounterStore(time.Minute),
	}

	app := fiber.New()
	app.Use(svc.Limit())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
	})
	return app
}

func TestLimit_RejectsWith429(t *testing.T) {
	app := newRateLimitTestApp(2)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/ping", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.StatusCode)
		}
		resp.Body.Close()
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("429 response must carry Retry-After")
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected X-RateLimit-Remaining 0, got %q", resp.Header.Get("X-RateLimit-Remaining"))
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope shared.Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("429 body is not the standard envelope: %v", err)
	}
	if envelope.Message != "Rate limit exceeded. Please try again later." {
		t.Errorf("unexpected 429 message: %q", envelope.Message)
	}
}

func TestLimit_SetsRateLimitHeaders(t *testing.T) {
	app := newRateLimitTestApp(5)

	req := httptest.NewRequest("GET", "/ping", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-RateLimit-Limit") != "5" {
		t.Errorf("expected X-RateLimit-Limit 5, got %q", resp.Header.Get("X-RateLimit-Limit"))
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "4" {
		t.Errorf("expected X-RateLimit-Remaining 4, got %q", resp.Header.Get("X-RateLimit-Remaining"))
	}
	if resp.Header.Get("X-RateLimit-Reset") == "" {
		t.Error("expected X-RateLimit-Reset to be set")
	}
}

func TestClientIdentifier(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "forwarded for single",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:    "203.0.113.7",
		},
		{
			name:    "forwarded for chain uses first",
			headers: map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1, 10.0.0.2"},
			want:    "203.0.113.7",
		},
		{
			name:    "real ip fallback",
			headers: map[string]string{"X-Real-IP": "198.51.100.9"},
			want:    "198.51.100.9",
		},
		{
			name: "forwarded for wins over real ip",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.7",
				"X-Real-IP":       "198.51.100.9",
			},
			want: "203.0.113.7",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			app.Get("/", func(c *fiber.Ctx) error {
				got = ClientIdentifier(c)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if got != tc.want {
				t.Errorf("expected identifier %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLimit_DistinguishesForwardedClients(t *testing.T) {
	app := newRateLimitTestApp(1)

	first := httptest.NewRequest("GET", "/ping", nil)
	first.Header.Set("X-Forwarded-For", "203.0.113.1")
	resp, err := app.Test(first, -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first client should pass, got %d", resp.StatusCode)
	}

	second := httptest.NewRequest("GET", "/ping", nil)
	second.Header.Set("X-Forwarded-For", "203.0.113.2")
	resp, err = app.Test(second, -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("second client has its own budget, got %d", resp.StatusCode)
	}

	repeat := httptest.NewRequest("GET", "/ping", nil)
	repeat.Header.Set("X-Forwarded-For", "203.0.113.1")
	resp, err = app.Test(repeat, -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("first client exhausted its budget, expected 429, got %d", resp.StatusCode)
	}
}
