package model

import "time"

type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text;not null"`
	Username    string     `json:"username" gorm:"uniqueIndex;not null;size:30"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password    string     `json:"-" gorm:"not null"`
	Role        string     `json:"role" gorm:"not null;default:user;size:20"`
	XP          int        `json:"xp" gorm:"default:0;not null"`
	Level       int        `json:"level" gorm:"default:1;not null"`
	Streak      int        `json:"streak" gorm:"default:0;not null"`
	IsActive    bool       `json:"is_active" gorm:"default:true;not null"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`
}

type UserProgress struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID      string     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_level"`
	CharacterID string     `json:"character_id" gorm:"not null;index"`
	LevelID     string     `json:"level_id" gorm:"not null;uniqueIndex:idx_user_level"`
	Score       int        `json:"score" gorm:"default:0;not null"`
	XPEarned    int        `json:"xp_earned" gorm:"default:0;not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false;not null"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`
}
