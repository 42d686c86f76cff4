package services

import (
	stdContext "context"
	"fmt"
	"time"

	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/services/repositories"
	"github.com/on-their-footsteps/footsteps_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

type ContentService struct {
	context.DefaultService

	sqlSvc   *PostgresService
	redisSvc *RedisService

	contentRepo *repositories.ContentRepository
}

const CONTENT_SVC = "content_svc"

const contentCacheTTL = 5 * time.Minute

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.contentRepo = repositories.NewContentRepository(svc.sqlSvc.Db())
	return nil
}

// ==================== PUBLIC READS ====================

func (svc *ContentService) GetCharacters(req dto.CharacterListRequest) (*dto.CharacterListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("content:characters:%s:%s:%d:%d", req.Category, req.Era, page, limit)
	ctx := stdContext.Background()

	var cached dto.CharacterListResponse
	if hit, err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	characters, total, err := svc.contentRepo.ListCharacters(req.Category, req.Era, (page-1)*limit, limit, true)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(characters))
	for _, ch := range characters {
		ids = append(ids, ch.ID)
	}

	levelCounts := map[string]int{}
	if len(ids) > 0 {
		levelCounts, err = svc.contentRepo.CountLevelsByCharacter(ids)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]dto.CharacterSummary, 0, len(characters))
	for _, ch := range characters {
		summaries = append(summaries, dto.CharacterSummary{
			ID:         ch.ID,
			Name:       ch.Name,
			ArabicName: ch.ArabicName,
			Title:      ch.Title,
			Category:   ch.Category,
			Era:        ch.Era,
			ShortBio:   ch.ShortBio,
			ImageURL:   ch.ImageURL,
			LevelCount: levelCounts[ch.ID],
		})
	}

	resp := &dto.CharacterListResponse{
		Characters: summaries,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, resp, contentCacheTTL); err != nil {
		log.WithError(err).Debug("Failed to cache character listing")
	}

	return resp, nil
}

func (svc *ContentService) GetCharacterDetails(characterID string) (*dto.CharacterResponse, error) {
	character, err := svc.contentRepo.GetCharacterWithLevels(characterID)
	if err != nil {
		return nil, err
	}
	if !character.IsActive {
		return nil, shared.NewNotFoundError(nil, "Character not found")
	}
	return &dto.CharacterResponse{Character: *character}, nil
}

func (svc *ContentService) GetCategories() ([]string, error) {
	return svc.contentRepo.GetCategories()
}

func (svc *ContentService) GetEras() ([]string, error) {
	return svc.contentRepo.GetEras()
}

// ==================== ADMIN WRITES ====================

func (svc *ContentService) CreateCharacter(req dto.CreateCharacterRequest) (*model.Character, error) {
	character := &model.Character{
		Name:       req.Name,
		ArabicName: req.ArabicName,
		Title:      req.Title,
		Category:   req.Category,
		Era:        req.Era,
		ShortBio:   req.ShortBio,
		FullBio:    req.FullBio,
		BirthYear:  req.BirthYear,
		DeathYear:  req.DeathYear,
		SortOrder:  req.SortOrder,
		IsActive:   true,
	}

	character, err := svc.contentRepo.CreateCharacter(character)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.invalidateContentCache()
	return character, nil
}

func (svc *ContentService) UpdateCharacter(characterID string, req dto.UpdateCharacterRequest) (*model.Character, error) {
	character, err := svc.contentRepo.GetCharacter(characterID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		character.Name = *req.Name
	}
	if req.ArabicName != nil {
		character.ArabicName = *req.ArabicName
	}
	if req.Title != nil {
		character.Title = *req.Title
	}
	if req.Category != nil {
		character.Category = *req.Category
	}
	if req.Era != nil {
		character.Era = *req.Era
	}
	if req.ShortBio != nil {
		character.ShortBio = *req.ShortBio
	}
	if req.FullBio != nil {
		character.FullBio = *req.FullBio
	}
	if req.BirthYear != nil {
		character.BirthYear = *req.BirthYear
	}
	if req.DeathYear != nil {
		character.DeathYear = *req.DeathYear
	}
	if req.IsActive != nil {
		character.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		character.SortOrder = *req.SortOrder
	}

	if err := svc.contentRepo.UpdateCharacter(character); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.invalidateContentCache()
	return character, nil
}

// DeleteCharacter soft-deletes by marking inactive; levels, quizzes and
// progress rows stay intact.
func (svc *ContentService) DeleteCharacter(characterID string) error {
	character, err := svc.contentRepo.GetCharacter(characterID)
	if err != nil {
		return err
	}

	character.IsActive = false
	if err := svc.contentRepo.UpdateCharacter(character); err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	svc.invalidateContentCache()
	return nil
}

func (svc *ContentService) CreateLevel(characterID string, req dto.CreateLevelRequest) (*model.Level, error) {
	if _, err := svc.contentRepo.GetCharacter(characterID); err != nil {
		return nil, err
	}

	xpReward := req.XPReward
	if xpReward == 0 {
		xpReward = 10
	}

	level := &model.Level{
		CharacterID: characterID,
		Number:      req.Number,
		Title:       req.Title,
		StoryText:   req.StoryText,
		XPReward:    xpReward,
	}

	level, err := svc.contentRepo.CreateLevel(level)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.invalidateContentCache()
	return level, nil
}

func (svc *ContentService) CreateQuiz(levelID string, req dto.CreateQuizRequest) (*model.Quiz, error) {
	if _, err := svc.contentRepo.GetLevel(levelID); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		LevelID:       levelID,
		Question:      req.Question,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
		SortOrder:     req.SortOrder,
	}

	quiz, err := svc.contentRepo.CreateQuiz(quiz)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return quiz, nil
}

func (svc *ContentService) invalidateContentCache() {
	if err := svc.redisSvc.DeleteByPattern(stdContext.Background(), "content:characters:*"); err != nil {
		log.WithError(err).Debug("Failed to invalidate content cache")
	}
}
