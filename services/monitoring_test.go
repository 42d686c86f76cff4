package services

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

// The metric collectors are package level, so tests compare against a
// snapshot taken before the request instead of asserting absolute values.

func newMonitoringTestApp() *fiber.App {
	httpSvc := &HttpService{}
	app := fiber.New(fiber.Config{
		ErrorHandler: httpSvc.handleError,
	})
	app.Use(MonitoringMiddleware(&MonitoringService{}))

	app.Get("/characters/:characterId", func(c *fiber.Ctx) error {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return errors.New("storage offline")
	})

	return app
}

func TestMonitoringMiddleware_LabelsCarryMatchedRoute(t *testing.T) {
	app := newMonitoringTestApp()

	counter := httpRequestsTotal.WithLabelValues("/characters/:characterId", "GET", "200")
	before := testutil.ToFloat64(counter)

	resp, err := app.Test(httptest.NewRequest("GET", "/characters/umar", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("expected one request recorded under the route pattern, got %v", got)
	}
}

func TestMonitoringMiddleware_ErroredRequestCountedWithFinalStatus(t *testing.T) {
	app := newMonitoringTestApp()

	total := httpRequestsTotal.WithLabelValues("/broken", "GET", "500")
	failed := httpRequestsFailedTotal.WithLabelValues("/broken", "GET")
	beforeTotal := testutil.ToFloat64(total)
	beforeFailed := testutil.ToFloat64(failed)

	resp, err := app.Test(httptest.NewRequest("GET", "/broken", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 at the client, got %d", resp.StatusCode)
	}

	if got := testutil.ToFloat64(total) - beforeTotal; got != 1 {
		t.Errorf("expected the request counted under status 500, got %v", got)
	}
	if got := testutil.ToFloat64(failed) - beforeFailed; got != 1 {
		t.Errorf("expected the request counted as failed, got %v", got)
	}
}

func TestTrackEvent_IncrementsTrackedCounter(t *testing.T) {
	svc, _ := newAnalyticsTestService(t)

	events := analyticsEventsTrackedTotal.WithLabelValues(shared.EventTypeEvent)
	pages := analyticsEventsTrackedTotal.WithLabelValues(shared.EventTypePageView)
	beforeEvents := testutil.ToFloat64(events)
	beforePages := testutil.ToFloat64(pages)

	if !svc.TrackEvent("quiz_completed", "user-a", nil) {
		t.Fatal("tracking failed")
	}
	if !svc.TrackPageView("/home", "", nil) {
		t.Fatal("tracking failed")
	}

	if got := testutil.ToFloat64(events) - beforeEvents; got != 1 {
		t.Errorf("expected one tracked event counted, got %v", got)
	}
	if got := testutil.ToFloat64(pages) - beforePages; got != 1 {
		t.Errorf("expected one tracked page view counted, got %v", got)
	}
}

func TestTrackEvent_FailureNotCounted(t *testing.T) {
	svc, db := newAnalyticsTestService(t)
	if err := db.Migrator().DropTable(&model.AnalyticsEvent{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	events := analyticsEventsTrackedTotal.WithLabelValues(shared.EventTypeEvent)
	before := testutil.ToFloat64(events)

	if svc.TrackEvent("quiz_completed", "", nil) {
		t.Fatal("tracking should have failed")
	}

	if got := testutil.ToFloat64(events) - before; got != 0 {
		t.Errorf("failed tracking must not be counted, got %v", got)
	}
}
