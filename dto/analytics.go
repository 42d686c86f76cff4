package dto

import (
	"encoding/json"
	"time"

	"github.com/on-their-footsteps/footsteps_api/model"
)

type TrackEventRequest struct {
	EventName string          `json:"eventName" validate:"required,max=100" example:"quiz_completed"`
	Data      json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

func (t TrackEventRequest) Validate() error {
	return GetValidator().Struct(t)
}

type TrackPageViewRequest struct {
	Page string          `json:"page" validate:"required,max=500" example:"/characters/umar-ibn-al-khattab"`
	Data json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

func (t TrackPageViewRequest) Validate() error {
	return GetValidator().Struct(t)
}

type TrackResponse struct {
	Message string `json:"message" example:"Event tracked successfully"`
}

// NameCount is one row of a top-N ranking, ordered by Count descending with
// Name ascending as the tie-break.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type AnalyticsSummary struct {
	TotalEvents    int64       `json:"total_events"`
	TotalPageViews int64       `json:"total_page_views"`
	UniqueUsers    int64       `json:"unique_users"`
	TopEvents      []NameCount `json:"top_events"`
	TopPages       []NameCount `json:"top_pages"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
}

type EventListResponse struct {
	Events     []model.AnalyticsEvent `json:"events"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	StartDate  time.Time              `json:"start_date"`
	EndDate    time.Time              `json:"end_date"`
}
