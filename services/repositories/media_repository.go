package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/on-their-footsteps/footsteps_api/model"
	"gorm.io/gorm"
)

type MediaRepository struct {
	BaseRepository
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *MediaRepository) CreateMediaAsset(asset *model.MediaAsset) error {
	if asset.ID == "" {
		id, _ := uuid.NewV7()
		asset.ID = id.String()
	}
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = time.Now()

	return ds.db.Create(asset).Error
}

func (ds *MediaRepository) GetMediaAsset(id string) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	if err := ds.db.Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (ds *MediaRepository) GetMediaAssetsByEntity(entityType, entityID string) ([]model.MediaAsset, error) {
	var assets []model.MediaAsset
	err := ds.db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&assets).Error
	return assets, err
}

func (ds *MediaRepository) DeleteMediaAsset(id string) error {
	return ds.db.Where("id = ?", id).Delete(&model.MediaAsset{}).Error
}
