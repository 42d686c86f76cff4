package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/services/repositories"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

// newAnalyticsTestService wires the service to an in-memory database and a
// redis service with no live client, so every cache call fails the way it
// would with an unreachable cache.
func newAnalyticsTestService(t *testing.T) (*AnalyticsService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.AnalyticsEvent{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := &AnalyticsService{
		redisSvc:        &RedisService{},
		monitoringSvc:   &MonitoringService{},
		analyticsRepo:   repositories.NewAnalyticsRepository(db),
		lookbackDays:    defaultLookbackDays,
		defaultPageSize: defaultEventsPage,
		topN:            defaultTopN,
	}
	return svc, db
}

func trackMany(t *testing.T, svc *AnalyticsService, eventType string, names map[string]int) {
	t.Helper()
	for name, n := range names {
		for i := 0; i < n; i++ {
			var ok bool
			if eventType == shared.EventTypeEvent {
				ok = svc.TrackEvent(name, "", nil)
			} else {
				ok = svc.TrackPageView(name, "", nil)
			}
			if !ok {
				t.Fatalf("failed to track %s/%s", eventType, name)
			}
		}
	}
}

func TestGetAnalytics_Summary(t *testing.T) {
	svc, _ := newAnalyticsTestService(t)

	trackMany(t, svc, shared.EventTypeEvent, map[string]int{
		"quiz_completed": 5,
		"share":          3,
		"login":          1,
	})
	trackMany(t, svc, shared.EventTypePageView, map[string]int{
		"/home":  4,
		"/about": 2,
	})

	if !svc.TrackEvent("quiz_completed", "user-a", nil) {
		t.Fatal("tracking with a user failed")
	}
	if !svc.TrackPageView("/home", "user-b", nil) {
		t.Fatal("tracking with a user failed")
	}

	summary := svc.GetAnalytics(nil, nil)

	if summary.TotalEvents != 10 {
		t.Errorf("expected 10 events, got %d", summary.TotalEvents)
	}
	if summary.TotalPageViews != 7 {
		t.Errorf("expected 7 page views, got %d", summary.TotalPageViews)
	}
	if summary.UniqueUsers != 2 {
		t.Errorf("expected 2 unique users, got %d", summary.UniqueUsers)
	}

	if len(summary.TopEvents) != 3 {
		t.Fatalf("expected 3 top events, got %d", len(summary.TopEvents))
	}
	if summary.TopEvents[0].Name != "quiz_completed" || summary.TopEvents[0].Count != 6 {
		t.Errorf("unexpected top event: %+v", summary.TopEvents[0])
	}
	if summary.TopPages[0].Name != "/home" || summary.TopPages[0].Count != 5 {
		t.Errorf("unexpected top page: %+v", summary.TopPages[0])
	}
}

func TestGetAnalytics_DefaultRange(t *testing.T) {
	svc, _ := newAnalyticsTestService(t)

	summary := svc.GetAnalytics(nil, nil)

	wantStart := summary.EndDate.AddDate(0, 0, -defaultLookbackDays)
	if !summary.StartDate.Equal(wantStart) {
		t.Errorf("expected default range of %d days, got %v..%v", defaultLookbackDays, summary.StartDate, summary.EndDate)
	}
}

func TestGetAnalytics_EmptyRangeIsZeroedNotNil(t *testing.T) {
	svc, _ := newAnalyticsTestService(t)

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	summary := svc.GetAnalytics(&start, &end)

	if summary == nil {
		t.Fatal("summary must never be nil")
	}
	if summary.TotalEvents != 0 || summary.TotalPageViews != 0 || summary.UniqueUsers != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.TopEvents == nil || summary.TopPages == nil {
		t.Error("rankings must be empty slices, not nil")
	}
	if !summary.StartDate.Equal(start) || !summary.EndDate.Equal(end) {
		t.Errorf("summary must echo the requested range, got %v..%v", summary.StartDate, summary.EndDate)
	}
}

func TestGetAnalytics_DegradesOnQueryFailure(t *testing.T) {
	svc, db := newAnalyticsTestService(t)

	trackMany(t, svc, shared.EventTypeEvent, map[string]int{"login": 2})

	// Simulate storage loss out from under the service.
	if err := db.Migrator().DropTable(&model.AnalyticsEvent{}); err != nil {
		t.Fatal(err)
	}

	summary := svc.GetAnalytics(nil, nil)
	if summary == nil {
		t.Fatal("summary must never be nil, even when every query fails")
	}
	if summary.TotalEvents != 0 || len(summary.TopEvents) != 0 {
		t.Errorf("expected a zeroed summary on failure, got %+v", summary)
	}
}

func TestTrack_ReportsFailureAsFalse(t *testing.T) {
	svc, db := newAnalyticsTestService(t)

	if err := db.Migrator().DropTable(&model.AnalyticsEvent{}); err != nil {
		t.Fatal(err)
	}

	if svc.TrackEvent("login", "", nil) {
		t.Error("tracking into a missing table must report false")
	}
	if svc.TrackPageView("/home", "", nil) {
		t.Error("tracking into a missing table must report false")
	}
}

func TestListEvents_DegradesToEmptyPage(t *testing.T) {
	svc, db := newAnalyticsTestService(t)

	if err := db.Migrator().DropTable(&model.AnalyticsEvent{}); err != nil {
		t.Fatal(err)
	}

	resp := svc.ListEvents(nil, nil, 1, 20)
	if resp == nil {
		t.Fatal("listing must never return nil")
	}
	if resp.Events == nil || len(resp.Events) != 0 {
		t.Errorf("expected an empty page, got %+v", resp.Events)
	}
	if resp.Page != 1 || resp.Limit != 20 {
		t.Errorf("page metadata must survive degradation, got page=%d limit=%d", resp.Page, resp.Limit)
	}
}

func TestListEvents_DefaultsAndCaps(t *testing.T) {
	svc, _ := newAnalyticsTestService(t)

	resp := svc.ListEvents(nil, nil, 0, 0)
	if resp.Page != 1 {
		t.Errorf("page should default to 1, got %d", resp.Page)
	}
	if resp.Limit != defaultEventsPage {
		t.Errorf("limit should default to %d, got %d", defaultEventsPage, resp.Limit)
	}

	resp = svc.ListEvents(nil, nil, 1, 10_000)
	if resp.Limit != maxEventsPage {
		t.Errorf("limit should be capped at %d, got %d", maxEventsPage, resp.Limit)
	}
}

func TestListEvents_Pagination(t *testing.T) {
	svc, _ := newAnalyticsTestService(t)

	for i := 0; i < 5; i++ {
		if !svc.TrackEvent("login", "", nil) {
			t.Fatal("seed tracking failed")
		}
		time.Sleep(2 * time.Millisecond)
	}

	resp := svc.ListEvents(nil, nil, 2, 2)
	if resp.Total != 5 {
		t.Errorf("expected total 5, got %d", resp.Total)
	}
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if len(resp.Events) != 2 {
		t.Errorf("expected 2 events on page 2, got %d", len(resp.Events))
	}
}
