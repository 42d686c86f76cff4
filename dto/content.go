package dto

import (
	"encoding/json"
	"time"

	"github.com/on-their-footsteps/footsteps_api/model"
)

// ==================== PUBLIC CONTENT DTOs ====================

type CharacterListRequest struct {
	Category string `query:"category" validate:"omitempty,max=50"`
	Era      string `query:"era" validate:"omitempty,max=100"`
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	Limit    int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

func (r CharacterListRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CharacterSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ArabicName string `json:"arabic_name,omitempty"`
	Title      string `json:"title,omitempty"`
	Category   string `json:"category"`
	Era        string `json:"era"`
	ShortBio   string `json:"short_bio,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	LevelCount int    `json:"level_count"`
}

type CharacterListResponse struct {
	Characters []CharacterSummary `json:"characters"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type CharacterResponse struct {
	model.Character
}

// ==================== ADMIN CONTENT DTOs ====================

type CreateCharacterRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	ArabicName string `json:"arabic_name" validate:"omitempty,max=255"`
	Title      string `json:"title" validate:"omitempty,max=255"`
	Category   string `json:"category" validate:"required,oneof=prophets companions scholars"`
	Era        string `json:"era" validate:"required,max=100"`
	ShortBio   string `json:"short_bio" validate:"omitempty,max=1000"`
	FullBio    string `json:"full_bio"`
	BirthYear  int    `json:"birth_year"`
	DeathYear  int    `json:"death_year"`
	SortOrder  int    `json:"sort_order"`
}

func (r CreateCharacterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateCharacterRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=255"`
	ArabicName *string `json:"arabic_name" validate:"omitempty,max=255"`
	Title      *string `json:"title" validate:"omitempty,max=255"`
	Category   *string `json:"category" validate:"omitempty,oneof=prophets companions scholars"`
	Era        *string `json:"era" validate:"omitempty,max=100"`
	ShortBio   *string `json:"short_bio" validate:"omitempty,max=1000"`
	FullBio    *string `json:"full_bio"`
	BirthYear  *int    `json:"birth_year"`
	DeathYear  *int    `json:"death_year"`
	IsActive   *bool   `json:"is_active"`
	SortOrder  *int    `json:"sort_order"`
}

func (r UpdateCharacterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateLevelRequest struct {
	Number    int    `json:"number" validate:"required,gte=1"`
	Title     string `json:"title" validate:"required,max=255"`
	StoryText string `json:"story_text"`
	XPReward  int    `json:"xp_reward" validate:"omitempty,gte=0,lte=1000"`
}

func (r CreateLevelRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CreateQuizRequest struct {
	Question      string          `json:"question" validate:"required"`
	Options       json.RawMessage `json:"options" validate:"required" swaggertype:"array,string"`
	CorrectOption int             `json:"correct_option" validate:"gte=0"`
	Explanation   string          `json:"explanation"`
	SortOrder     int             `json:"sort_order"`
}

func (r CreateQuizRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== PROGRESS DTOs ====================

type CompleteLevelRequest struct {
	// Answers maps quiz id to the selected option index.
	Answers map[string]int `json:"answers" validate:"required"`
}

func (r CompleteLevelRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteLevelResponse struct {
	Score        int  `json:"score"`
	Passed       bool `json:"passed"`
	XPEarned     int  `json:"xp_earned"`
	TotalXP      int  `json:"total_xp"`
	CurrentLevel int  `json:"current_level"`
	LeveledUp    bool `json:"leveled_up"`
}

type CharacterProgress struct {
	CharacterID     string     `json:"character_id"`
	CharacterName   string     `json:"character_name"`
	CompletedLevels int        `json:"completed_levels"`
	TotalLevels     int        `json:"total_levels"`
	XPEarned        int        `json:"xp_earned"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
}

type UserProgressResponse struct {
	TotalXP      int                 `json:"total_xp"`
	CurrentLevel int                 `json:"current_level"`
	Streak       int                 `json:"streak"`
	Characters   []CharacterProgress `json:"characters"`
}
