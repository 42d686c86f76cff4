package services

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	"github.com/on-their-footsteps/footsteps_api/shared"
)

// newPipelineTestApp mirrors the production middleware order with a small
// rate-limit budget so rejection paths are reachable in tests.
func newPipelineTestApp(maxRequests int) *fiber.App {
	httpSvc := &HttpService{}
	rateLimitSvc := &RateLimitService{
		maxRequests: maxRequests,
		window:      time.Minute,
		store:       newCounterStore(time.Minute),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: httpSvc.handleError,
	})
	app.Use(recover.New())
	app.Use(httpSvc.requestLogger())
	app.Use(rateLimitSvc.Limit())

	app.Get("/ok", func(c *fiber.Ctx) error {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", "ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Character not found")
	})
	app.Get("/gorm-missing", func(c *fiber.Ctx) error {
		return gorm.ErrRecordNotFound
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database password is hunter2")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected state")
	})

	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (int, shared.Response) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var envelope shared.Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("response %q is not the standard envelope: %v", body, err)
	}
	return resp.StatusCode, envelope
}

func TestPipeline_SuccessPassesThrough(t *testing.T) {
	app := newPipelineTestApp(100)

	status, envelope := doRequest(t, app, "/ok")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if envelope.Message != "Success" {
		t.Errorf("unexpected message %q", envelope.Message)
	}
}

func TestPipeline_AppErrorKeepsStatusAndMessage(t *testing.T) {
	app := newPipelineTestApp(100)

	status, envelope := doRequest(t, app, "/missing")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if envelope.Message != "Character not found" {
		t.Errorf("expected the application error message, got %q", envelope.Message)
	}
}

func TestPipeline_GormNotFoundMapsTo404(t *testing.T) {
	app := newPipelineTestApp(100)

	status, envelope := doRequest(t, app, "/gorm-missing")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if envelope.Message != "Not Found" {
		t.Errorf("unexpected message %q", envelope.Message)
	}
}

func TestPipeline_UnknownErrorBecomesGeneric500(t *testing.T) {
	app := newPipelineTestApp(100)

	status, envelope := doRequest(t, app, "/boom")
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if envelope.Message != "An internal server error occurred" {
		t.Errorf("expected the generic message, got %q", envelope.Message)
	}
}

func TestPipeline_UnknownErrorNeverLeaksDetail(t *testing.T) {
	app := newPipelineTestApp(100)

	req := httptest.NewRequest("GET", "/boom", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Fatal("expected a response body")
	}
	if strings.Contains(string(body), "hunter2") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestPipeline_PanicBecomesGeneric500(t *testing.T) {
	app := newPipelineTestApp(100)

	status, envelope := doRequest(t, app, "/panic")
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if envelope.Message != "An internal server error occurred" {
		t.Errorf("expected the generic message, got %q", envelope.Message)
	}
}

// lastRequestLogLine returns the most recent line the request logger
// emitted since the hook was installed.
func lastRequestLogLine(t *testing.T, hook *logtest.Hook) *log.Entry {
	t.Helper()

	entries := hook.AllEntries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Message == "request" {
			return entries[i]
		}
	}
	t.Fatal("no request log line captured")
	return nil
}

func TestRequestLogger_ErroredRequestLogsFinalStatus(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	app := newPipelineTestApp(100)

	status, _ := doRequest(t, app, "/boom")
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 at the client, got %d", status)
	}

	entry := lastRequestLogLine(t, hook)
	if got := entry.Data["status"]; got != fiber.StatusInternalServerError {
		t.Errorf("logged status %v, want 500", got)
	}
	if entry.Level != log.ErrorLevel {
		t.Errorf("logged at %v, want error level", entry.Level)
	}
	if entry.Data["error"] == nil {
		t.Error("expected the error recorded on the log line")
	}
}

func TestRequestLogger_AppErrorLogsAsWarning(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	app := newPipelineTestApp(100)

	status, _ := doRequest(t, app, "/missing")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 at the client, got %d", status)
	}

	entry := lastRequestLogLine(t, hook)
	if got := entry.Data["status"]; got != fiber.StatusNotFound {
		t.Errorf("logged status %v, want 404", got)
	}
	if entry.Level != log.WarnLevel {
		t.Errorf("logged at %v, want warn level", entry.Level)
	}
}

func TestRequestLogger_SuccessLogsAsInfo(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	app := newPipelineTestApp(100)

	status, _ := doRequest(t, app, "/ok")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	entry := lastRequestLogLine(t, hook)
	if got := entry.Data["status"]; got != fiber.StatusOK {
		t.Errorf("logged status %v, want 200", got)
	}
	if entry.Level != log.InfoLevel {
		t.Errorf("logged at %v, want info level", entry.Level)
	}
}

func TestPipeline_RateLimiterRunsBeforeHandlers(t *testing.T) {
	app := newPipelineTestApp(1)

	status, _ := doRequest(t, app, "/ok")
	if status != fiber.StatusOK {
		t.Fatalf("first request should pass, got %d", status)
	}

	// The second request must be rejected by the limiter, not reach the
	// failing handler behind it.
	status, envelope := doRequest(t, app, "/boom")
	if status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	if envelope.Message != "Rate limit exceeded. Please try again later." {
		t.Errorf("unexpected 429 message %q", envelope.Message)
	}
}
