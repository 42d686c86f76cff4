package handlers

import (
	"encoding/json"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/model"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error)
	RefreshToken(req dto.RefreshTokenRequest) (*dto.TokenPair, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type UserServiceInterface interface {
	GetUserProfile(userID string) (*dto.UserProfileResponse, error)
	CompleteLevel(userID, characterID, levelID string, answers map[string]int) (*dto.CompleteLevelResponse, error)
	GetUserProgress(userID string) (*dto.UserProgressResponse, error)
	GetAdminStats() (*dto.AdminStatsResponse, error)
}

type ContentServiceInterface interface {
	GetCharacters(req dto.CharacterListRequest) (*dto.CharacterListResponse, error)
	GetCharacterDetails(characterID string) (*dto.CharacterResponse, error)
	GetCategories() ([]string, error)
	GetEras() ([]string, error)
	CreateCharacter(req dto.CreateCharacterRequest) (*model.Character, error)
	UpdateCharacter(characterID string, req dto.UpdateCharacterRequest) (*model.Character, error)
	DeleteCharacter(characterID string) error
	CreateLevel(characterID string, req dto.CreateLevelRequest) (*model.Level, error)
	CreateQuiz(levelID string, req dto.CreateQuizRequest) (*model.Quiz, error)
}

type AnalyticsServiceInterface interface {
	TrackEvent(eventName, userID string, data json.RawMessage) bool
	TrackPageView(page, userID string, data json.RawMessage) bool
	GetAnalytics(startDate, endDate *time.Time) *dto.AnalyticsSummary
	ListEvents(startDate, endDate *time.Time, page, limit int) *dto.EventListResponse
}

type MediaServiceInterface interface {
	UploadCharacterImage(characterID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	DeleteMediaAsset(assetID string) error
}
