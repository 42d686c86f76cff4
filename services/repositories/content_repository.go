package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/on-their-footsteps/footsteps_api/model"
	"gorm.io/gorm"
)

type ContentRepository struct {
	BaseRepository
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ==================== CHARACTER METHODS ====================

func (ds *ContentRepository) CreateCharacter(character *model.Character) (*model.Character, error) {
	if character.ID == "" {
		id, _ := uuid.NewV7()
		character.ID = id.String()
	}
	character.CreatedAt = time.Now()
	character.UpdatedAt = time.Now()

	if err := ds.db.Create(character).Error; err != nil {
		return nil, err
	}
	return character, nil
}

func (ds *ContentRepository) GetCharacter(id string) (*model.Character, error) {
	var character model.Character
	if err := ds.db.Where("id = ?", id).First(&character).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

func (ds *ContentRepository) GetCharacterWithLevels(id string) (*model.Character, error) {
	var character model.Character
	err := ds.db.
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("levels.number ASC")
		}).
		Preload("Levels.Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Order("quizzes.sort_order ASC")
		}).
		Where("id = ?", id).
		First(&character).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (ds *ContentRepository) ListCharacters(category, era string, offset, limit int, activeOnly bool) ([]model.Character, int64, error) {
	query := ds.db.Model(&model.Character{})

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if era != "" {
		query = query.Where("era = ?", era)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var characters []model.Character
	err := query.
		Order("sort_order ASC, name ASC").
		Offset(offset).
		Limit(limit).
		Find(&characters).Error
	return characters, total, err
}

func (ds *ContentRepository) UpdateCharacter(character *model.Character) error {
	character.UpdatedAt = time.Now()
	return ds.db.Save(character).Error
}

func (ds *ContentRepository) CountLevelsByCharacter(characterIDs []string) (map[string]int, error) {
	type row struct {
		CharacterID string
		Count       int
	}
	var rows []row
	err := ds.db.Model(&model.Level{}).
		Select("character_id, COUNT(*) AS count").
		Where("character_id IN ?", characterIDs).
		Group("character_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.CharacterID] = r.Count
	}
	return counts, nil
}

// GetCategories returns the distinct categories of active characters.
func (ds *ContentRepository) GetCategories() ([]string, error) {
	var categories []string
	err := ds.db.Model(&model.Character{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (ds *ContentRepository) GetEras() ([]string, error) {
	var eras []string
	err := ds.db.Model(&model.Character{}).
		Where("is_active = ?", true).
		Distinct("era").
		Order("era ASC").
		Pluck("era", &eras).Error
	return eras, err
}

// ==================== LEVEL + QUIZ METHODS ====================

func (ds *ContentRepository) CreateLevel(level *model.Level) (*model.Level, error) {
	if level.ID == "" {
		id, _ := uuid.NewV7()
		level.ID = id.String()
	}
	level.CreatedAt = time.Now()
	level.UpdatedAt = time.Now()

	if err := ds.db.Create(level).Error; err != nil {
		return nil, err
	}
	return level, nil
}

func (ds *ContentRepository) GetLevel(id string) (*model.Level, error) {
	var level model.Level
	err := ds.db.
		Preload("Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Order("quizzes.sort_order ASC")
		}).
		Where("id = ?", id).
		First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (ds *ContentRepository) CreateQuiz(quiz *model.Quiz) (*model.Quiz, error) {
	if quiz.ID == "" {
		id, _ := uuid.NewV7()
		quiz.ID = id.String()
	}
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = time.Now()

	if err := ds.db.Create(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}
