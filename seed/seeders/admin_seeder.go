package seeders

import (
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

// AdminSeeder creates the initial admin account.
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

// SeedAdmin creates an admin user from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD. The password is never defaulted: without one the
// seeder skips rather than ship a known credential.
func (s *AdminSeeder) SeedAdmin() error {
	var existing model.User
	if err := s.db.Where("role = ?", shared.RoleAdmin).First(&existing).Error; err == nil {
		log.Info("Admin user already exists, skipping admin seeding")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Warn("SEED_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@footsteps.local"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	now := time.Now()
	admin := model.User{
		ID:        id.String(),
		Email:     email,
		Username:  "admin",
		Password:  string(hashed),
		Role:      shared.RoleAdmin,
		Level:     1,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.WithField("email", admin.Email).Info("Created admin user")
	return nil
}
