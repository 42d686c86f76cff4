package repositories

import (
	"gorm.io/gorm"
)

// BaseRepository carries the gorm handle every repository embeds.
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB exposes the raw handle for queries the repository methods do not cover.
func (r *BaseRepository) DB() *gorm.DB {
	return r.db
}
