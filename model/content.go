package model

import (
	"encoding/json"
	"time"
)

// Character is an Islamic historical figure presented on the platform.
// Category and Era are stored denormalized; the distinct values back the
// public category/era listings.
type Character struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Name       string    `json:"name" gorm:"not null;size:255"`
	ArabicName string    `json:"arabic_name" gorm:"size:255"`
	Title      string    `json:"title" gorm:"size:255"`
	Category   string    `json:"category" gorm:"not null;index;size:50"`
	Era        string    `json:"era" gorm:"not null;index;size:100"`
	ShortBio   string    `json:"short_bio" gorm:"type:text"`
	FullBio    string    `json:"full_bio" gorm:"type:text"`
	BirthYear  int       `json:"birth_year"`
	DeathYear  int       `json:"death_year"`
	ImageURL   string    `json:"image_url" gorm:"size:500"`
	IsActive   bool      `json:"is_active" gorm:"default:true;not null"`
	SortOrder  int       `json:"sort_order" gorm:"default:0;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null"`

	Levels []Level `json:"levels,omitempty" gorm:"foreignKey:CharacterID"`
}

// Level is one step of a character's learning path. Levels are ordered by
// Number and unlock sequentially on the client.
type Level struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text;not null"`
	CharacterID string    `json:"character_id" gorm:"not null;index"`
	Number      int       `json:"number" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	StoryText   string    `json:"story_text" gorm:"type:text"`
	XPReward    int       `json:"xp_reward" gorm:"default:10;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`

	Quizzes []Quiz `json:"quizzes,omitempty" gorm:"foreignKey:LevelID"`
}

type Quiz struct {
	ID            string          `json:"id" gorm:"primaryKey;type:text;not null"`
	LevelID       string          `json:"level_id" gorm:"not null;index"`
	Question      string          `json:"question" gorm:"not null;type:text"`
	Options       json.RawMessage `json:"options" gorm:"type:text;not null"`
	CorrectOption int             `json:"-" gorm:"not null"`
	Explanation   string          `json:"explanation" gorm:"type:text"`
	SortOrder     int             `json:"sort_order" gorm:"default:0;not null"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null"`
}

type MediaAsset struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text;not null"`
	EntityType  string    `json:"entity_type" gorm:"not null;size:50;index:idx_media_entity"`
	EntityID    string    `json:"entity_id" gorm:"not null;size:255;index:idx_media_entity"`
	ObjectKey   string    `json:"object_key" gorm:"not null;size:500"`
	FileName    string    `json:"file_name" gorm:"not null;size:255"`
	ContentType string    `json:"content_type" gorm:"size:100"`
	SizeBytes   int64     `json:"size_bytes" gorm:"not null"`
	URL         string    `json:"url" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}
