package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/model"
	"gorm.io/gorm"
)

// AnalyticsRepository reads and appends to the analytics event log. The log
// is append-only: nothing here updates or deletes rows.
type AnalyticsRepository struct {
	BaseRepository
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *AnalyticsRepository) CreateEvent(event *model.AnalyticsEvent) error {
	if event.ID == "" {
		id, _ := uuid.NewV7()
		event.ID = id.String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return ds.db.Create(event).Error
}

func (ds *AnalyticsRepository) CountByType(eventType string, start, end time.Time) (int64, error) {
	var count int64
	err := ds.db.Model(&model.AnalyticsEvent{}).
		Where("event_type = ? AND created_at >= ? AND created_at <= ?", eventType, start, end).
		Count(&count).Error
	return count, err
}

func (ds *AnalyticsRepository) CountDistinctUsers(start, end time.Time) (int64, error) {
	var count int64
	err := ds.db.Model(&model.AnalyticsEvent{}).
		Where("created_at >= ? AND created_at <= ? AND user_id IS NOT NULL AND user_id <> ''", start, end).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// TopNames ranks event names of the given type by frequency. Ties are broken
// by name ascending so rankings are deterministic across runs.
func (ds *AnalyticsRepository) TopNames(eventType string, start, end time.Time, limit int) ([]dto.NameCount, error) {
	var rows []dto.NameCount
	err := ds.db.Model(&model.AnalyticsEvent{}).
		Select("name, COUNT(*) AS count").
		Where("event_type = ? AND created_at >= ? AND created_at <= ?", eventType, start, end).
		Group("name").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (ds *AnalyticsRepository) ListEvents(start, end time.Time, offset, limit int) ([]model.AnalyticsEvent, int64, error) {
	var total int64
	query := ds.db.Model(&model.AnalyticsEvent{}).
		Where("created_at >= ? AND created_at <= ?", start, end)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []model.AnalyticsEvent
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}
