package services

import (
	stdContext "context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/services/repositories"
	"github.com/on-their-footsteps/footsteps_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// AnalyticsService records application events and page views and answers
// aggregation queries over the event log. Nothing here is allowed to break
// a primary user flow: tracking reports success as a bool and queries
// degrade to zeroed results, with the underlying failure logged for
// operators.
type AnalyticsService struct {
	context.DefaultService

	sqlSvc        *PostgresService
	redisSvc      *RedisService
	monitoringSvc *MonitoringService

	analyticsRepo *repositories.AnalyticsRepository

	lookbackDays    int
	defaultPageSize int
	topN            int
}

const ANALYTICS_SVC = "analytics_svc"

const (
	defaultLookbackDays = 30
	defaultEventsPage   = 50
	maxEventsPage       = 100
	defaultTopN         = 10

	summaryCacheTTL = time.Minute
)

func (svc AnalyticsService) Id() string {
	return ANALYTICS_SVC
}

func (svc *AnalyticsService) Configure(ctx *context.Context) error {
	svc.lookbackDays = defaultLookbackDays
	if v := os.Getenv("ANALYTICS_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.lookbackDays = n
		}
	}

	svc.defaultPageSize = defaultEventsPage
	if v := os.Getenv("ANALYTICS_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.defaultPageSize = n
		}
	}

	svc.topN = defaultTopN
	return svc.DefaultService.Configure(ctx)
}

func (svc *AnalyticsService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.analyticsRepo = repositories.NewAnalyticsRepository(svc.sqlSvc.Db())
	return nil
}

// ==================== TRACKING ====================

// TrackEvent appends a named application event. Returns false instead of an
// error on failure; the failure is logged with enough context to diagnose
// out-of-band.
func (svc *AnalyticsService) TrackEvent(eventName, userID string, data json.RawMessage) bool {
	return svc.track(shared.EventTypeEvent, eventName, userID, data)
}

func (svc *AnalyticsService) TrackPageView(page, userID string, data json.RawMessage) bool {
	return svc.track(shared.EventTypePageView, page, userID, data)
}

func (svc *AnalyticsService) track(eventType, name, userID string, data json.RawMessage) bool {
	event := &model.AnalyticsEvent{
		EventType: eventType,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
	if userID != "" {
		event.UserID = &userID
	}

	if err := svc.analyticsRepo.CreateEvent(event); err != nil {
		log.WithFields(log.Fields{
			"event_type": eventType,
			"name":       name,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to track analytics event")
		return false
	}

	svc.monitoringSvc.RecordEventTracked(eventType)
	return true
}

// ==================== AGGREGATION ====================

// GetAnalytics computes the aggregation for the requested range, defaulting
// to the configured lookback window. It never returns an error: any query
// failure yields a zeroed summary for the resolved range.
func (svc *AnalyticsService) GetAnalytics(startDate, endDate *time.Time) *dto.AnalyticsSummary {
	start, end := svc.resolveRange(startDate, endDate)

	summary := &dto.AnalyticsSummary{
		TopEvents: []dto.NameCount{},
		TopPages:  []dto.NameCount{},
		StartDate: start,
		EndDate:   end,
	}

	cacheKey := fmt.Sprintf("analytics:summary:%d:%d", start.Unix(), end.Unix())
	ctx := stdContext.Background()
	if hit, err := svc.redisSvc.GetJSON(ctx, cacheKey, summary); err == nil && hit {
		return summary
	}

	totalEvents, err := svc.analyticsRepo.CountByType(shared.EventTypeEvent, start, end)
	if err != nil {
		return svc.degrade(summary, "count events", err)
	}
	summary.TotalEvents = totalEvents

	totalPageViews, err := svc.analyticsRepo.CountByType(shared.EventTypePageView, start, end)
	if err != nil {
		return svc.degrade(summary, "count page views", err)
	}
	summary.TotalPageViews = totalPageViews

	uniqueUsers, err := svc.analyticsRepo.CountDistinctUsers(start, end)
	if err != nil {
		return svc.degrade(summary, "count distinct users", err)
	}
	summary.UniqueUsers = uniqueUsers

	topEvents, err := svc.analyticsRepo.TopNames(shared.EventTypeEvent, start, end, svc.topN)
	if err != nil {
		return svc.degrade(summary, "rank events", err)
	}
	summary.TopEvents = topEvents

	topPages, err := svc.analyticsRepo.TopNames(shared.EventTypePageView, start, end, svc.topN)
	if err != nil {
		return svc.degrade(summary, "rank pages", err)
	}
	summary.TopPages = topPages

	if err := svc.redisSvc.Set(ctx, cacheKey, summary, summaryCacheTTL); err != nil {
		log.WithError(err).Debug("Failed to cache analytics summary")
	}

	return summary
}

// ListEvents returns raw events in range, newest first. Query failures
// degrade to an empty page under the same never-break policy.
func (svc *AnalyticsService) ListEvents(startDate, endDate *time.Time, page, limit int) *dto.EventListResponse {
	start, end := svc.resolveRange(startDate, endDate)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = svc.defaultPageSize
	}
	if limit > maxEventsPage {
		limit = maxEventsPage
	}

	resp := &dto.EventListResponse{
		Events:    []model.AnalyticsEvent{},
		Page:      page,
		Limit:     limit,
		StartDate: start,
		EndDate:   end,
	}

	events, total, err := svc.analyticsRepo.ListEvents(start, end, (page-1)*limit, limit)
	if err != nil {
		log.WithFields(log.Fields{
			"start": start,
			"end":   end,
			"page":  page,
			"error": err.Error(),
		}).Error("Analytics event listing failed")
		return resp
	}

	resp.Events = events
	resp.Total = total
	resp.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	return resp
}

func (svc *AnalyticsService) resolveRange(startDate, endDate *time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()

	end := now
	if endDate != nil {
		end = endDate.UTC()
	}

	start := end.AddDate(0, 0, -svc.lookbackDays)
	if startDate != nil {
		start = startDate.UTC()
	}

	return start, end
}

func (svc *AnalyticsService) degrade(summary *dto.AnalyticsSummary, op string, err error) *dto.AnalyticsSummary {
	log.WithFields(log.Fields{
		"operation": op,
		"start":     summary.StartDate,
		"end":       summary.EndDate,
		"error":     err.Error(),
	}).Error("Analytics aggregation failed, returning empty result")

	return &dto.AnalyticsSummary{
		TopEvents: []dto.NameCount{},
		TopPages:  []dto.NameCount{},
		StartDate: summary.StartDate,
		EndDate:   summary.EndDate,
	}
}
