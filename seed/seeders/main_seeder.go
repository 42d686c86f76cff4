package seeders

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations.
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders. Characters come first so levels and quizzes can
// hang off them.
func (s *MainSeeder) SeedAll() error {
	log.Info("Starting database seeding")

	if err := NewCharacterSeeder(s.db).SeedCharacters(); err != nil {
		return err
	}

	if err := NewAdminSeeder(s.db).SeedAdmin(); err != nil {
		return err
	}

	log.Info("Database seeding completed")
	return nil
}

func (s *MainSeeder) SeedCharactersOnly() error {
	return NewCharacterSeeder(s.db).SeedCharacters()
}

func (s *MainSeeder) SeedAdminOnly() error {
	return NewAdminSeeder(s.db).SeedAdmin()
}
