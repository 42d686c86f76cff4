package model

import (
	"encoding/json"
	"time"
)

// AnalyticsEvent is an append-only record of a named application event or a
// page view. Rows are never updated or deleted by normal operation. UserID
// carries no foreign key on purpose: events may outlive the user they
// reference, or belong to no user at all.
type AnalyticsEvent struct {
	ID        string          `json:"id" gorm:"primaryKey;type:text;not null"`
	EventType string          `json:"event_type" gorm:"not null;index;size:20"`
	Name      string          `json:"name" gorm:"not null;index;size:500"`
	UserID    *string         `json:"user_id,omitempty" gorm:"index;size:255"`
	Data      json.RawMessage `json:"data,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;index"`
}
