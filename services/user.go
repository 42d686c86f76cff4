package services

import (
	"errors"
	"time"

	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/services/repositories"
	"github.com/on-their-footsteps/footsteps_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserService struct {
	context.DefaultService

	sqlSvc       *PostgresService
	analyticsSvc *AnalyticsService

	userRepo    *repositories.UserRepository
	contentRepo *repositories.ContentRepository
}

const USER_SVC = "user_svc"

// XP needed to advance one level.
const xpPerLevel = 100

const passingScore = 70

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.analyticsSvc = svc.Service(ANALYTICS_SVC).(*AnalyticsService)
	svc.userRepo = repositories.NewUserRepository(svc.sqlSvc.Db())
	svc.contentRepo = repositories.NewContentRepository(svc.sqlSvc.Db())
	return nil
}

// ==================== PROFILE ====================

func (svc *UserService) GetUserProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		XP:          user.XP,
		Level:       user.Level,
		Streak:      user.Streak,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}, nil
}

// ==================== LEVEL COMPLETION ====================

// CompleteLevel grades the submitted answers against the level's quizzes,
// awards XP on a first pass, and records progress. XP is only granted once
// per level; replays can improve the stored score but not farm XP.
func (svc *UserService) CompleteLevel(userID, characterID, levelID string, answers map[string]int) (*dto.CompleteLevelResponse, error) {
	level, err := svc.contentRepo.GetLevel(levelID)
	if err != nil {
		return nil, err
	}
	if level.CharacterID != characterID {
		return nil, shared.NewNotFoundError(nil, "Level not found for this character")
	}
	if len(level.Quizzes) == 0 {
		return nil, shared.NewBadRequestError(nil, "Level has no quizzes to complete")
	}

	correct := 0
	for _, quiz := range level.Quizzes {
		if selected, ok := answers[quiz.ID]; ok && selected == quiz.CorrectOption {
			correct++
		}
	}
	score := correct * 100 / len(level.Quizzes)
	passed := score >= passingScore

	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.userRepo.GetProgress(userID, levelID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	firstPass := passed && (progress == nil || !progress.IsCompleted)

	if progress == nil {
		progress = &model.UserProgress{
			UserID:      userID,
			CharacterID: characterID,
			LevelID:     levelID,
		}
	}

	if score > progress.Score {
		progress.Score = score
	}

	xpEarned := 0
	leveledUp := false
	if firstPass {
		xpEarned = level.XPReward
		progress.IsCompleted = true
		now := time.Now()
		progress.CompletedAt = &now
		progress.XPEarned = xpEarned

		oldLevel := user.Level
		user.XP += xpEarned
		user.Level = user.XP/xpPerLevel + 1
		leveledUp = user.Level > oldLevel

		if err := svc.userRepo.UpdateUser(user); err != nil {
			return nil, err
		}
	}

	if err := svc.userRepo.SaveProgress(progress); err != nil {
		return nil, err
	}

	if passed {
		svc.analyticsSvc.TrackEvent("level_completed", userID, nil)
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"level_id": levelID,
		"score":    score,
		"passed":   passed,
	}).Info("Level attempt recorded")

	return &dto.CompleteLevelResponse{
		Score:        score,
		Passed:       passed,
		XPEarned:     xpEarned,
		TotalXP:      user.XP,
		CurrentLevel: user.Level,
		LeveledUp:    leveledUp,
	}, nil
}

// ==================== PROGRESS SUMMARY ====================

func (svc *UserService) GetUserProgress(userID string) (*dto.UserProgressResponse, error) {
	user, err := svc.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}

	rows, err := svc.userRepo.GetUserProgressRows(userID)
	if err != nil {
		return nil, err
	}

	type agg struct {
		completed int
		xp        int
		last      time.Time
	}
	byCharacter := map[string]*agg{}
	order := []string{}

	for _, row := range rows {
		a, ok := byCharacter[row.CharacterID]
		if !ok {
			a = &agg{}
			byCharacter[row.CharacterID] = a
			order = append(order, row.CharacterID)
		}
		if row.IsCompleted {
			a.completed++
			a.xp += row.XPEarned
		}
		if row.UpdatedAt.After(a.last) {
			a.last = row.UpdatedAt
		}
	}

	characters := make([]dto.CharacterProgress, 0, len(order))
	for _, characterID := range order {
		a := byCharacter[characterID]

		name := ""
		totalLevels := 0
		if character, err := svc.contentRepo.GetCharacter(characterID); err == nil {
			name = character.Name
			counts, err := svc.contentRepo.CountLevelsByCharacter([]string{characterID})
			if err == nil {
				totalLevels = counts[characterID]
			}
		}

		last := a.last
		characters = append(characters, dto.CharacterProgress{
			CharacterID:     characterID,
			CharacterName:   name,
			CompletedLevels: a.completed,
			TotalLevels:     totalLevels,
			XPEarned:        a.xp,
			LastActivityAt:  &last,
		})
	}

	return &dto.UserProgressResponse{
		TotalXP:      user.XP,
		CurrentLevel: user.Level,
		Streak:       user.Streak,
		Characters:   characters,
	}, nil
}

// ==================== ADMIN ====================

func (svc *UserService) GetAdminStats() (*dto.AdminStatsResponse, error) {
	totalUsers, err := svc.userRepo.CountUsers(false)
	if err != nil {
		return nil, err
	}
	activeUsers, err := svc.userRepo.CountUsers(true)
	if err != nil {
		return nil, err
	}

	var totalCharacters, activeCharacters int64
	if err := svc.sqlSvc.Db().Model(&model.Character{}).Count(&totalCharacters).Error; err != nil {
		return nil, err
	}
	if err := svc.sqlSvc.Db().Model(&model.Character{}).Where("is_active = ?", true).Count(&activeCharacters).Error; err != nil {
		return nil, err
	}

	completedLevels, err := svc.userRepo.CountProgress(true)
	if err != nil {
		return nil, err
	}
	totalProgress, err := svc.userRepo.CountProgress(false)
	if err != nil {
		return nil, err
	}

	return &dto.AdminStatsResponse{
		TotalUsers:        totalUsers,
		ActiveUsers:       activeUsers,
		TotalCharacters:   totalCharacters,
		ActiveCharacters:  activeCharacters,
		CompletedLevels:   completedLevels,
		TotalProgressRows: totalProgress,
	}, nil
}
