package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/shared"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository handles user and progress database operations
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *UserRepository) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmailOrUsername(emailOrUsername string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) CreateUser(email, username, password string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, _ := uuid.NewV7()
	user := &model.User{
		ID:        id.String(),
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		Role:      shared.RoleUser,
		Level:     1,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := ds.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ds *UserRepository) UpdateUser(user *model.User) error {
	user.UpdatedAt = time.Now()
	return ds.db.Save(user).Error
}

func (ds *UserRepository) VerifyPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// ==================== PROGRESS METHODS ====================

func (ds *UserRepository) GetProgress(userID, levelID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	if err := ds.db.Where("user_id = ? AND level_id = ?", userID, levelID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (ds *UserRepository) SaveProgress(progress *model.UserProgress) error {
	if progress.ID == "" {
		id, _ := uuid.NewV7()
		progress.ID = id.String()
		progress.CreatedAt = time.Now()
	}
	progress.UpdatedAt = time.Now()
	return ds.db.Save(progress).Error
}

func (ds *UserRepository) GetUserProgressRows(userID string) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := ds.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// ==================== ADMIN STATS ====================

func (ds *UserRepository) CountUsers(activeOnly bool) (int64, error) {
	query := ds.db.Model(&model.User{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (ds *UserRepository) CountProgress(completedOnly bool) (int64, error) {
	query := ds.db.Model(&model.UserProgress{})
	if completedOnly {
		query = query.Where("is_completed = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
