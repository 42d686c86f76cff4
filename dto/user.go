package dto

import "time"

type UserProfileResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	XP          int        `json:"xp"`
	Level       int        `json:"level"`
	Streak      int        `json:"streak"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type AdminStatsResponse struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveUsers       int64 `json:"active_users"`
	TotalCharacters   int64 `json:"total_characters"`
	ActiveCharacters  int64 `json:"active_characters"`
	CompletedLevels   int64 `json:"completed_levels"`
	TotalProgressRows int64 `json:"total_progress_rows"`
}
