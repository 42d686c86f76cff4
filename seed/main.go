package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, characters, admin")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := gorm.Open(postgres.Open(databaseURL()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Character{},
		&model.Level{},
		&model.Quiz{},
	); err != nil {
		log.WithError(err).Fatal("Failed to migrate schema")
	}

	seeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		err = seeder.SeedAll()
	case "characters":
		err = seeder.SeedCharactersOnly()
	case "admin":
		err = seeder.SeedAdminOnly()
	default:
		log.Fatalf("Unknown seed type %q, use -help for usage", *seedType)
	}
	if err != nil {
		log.WithError(err).Fatal("Seeding failed")
	}
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	dbname := envOr("DB_NAME", "footsteps")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func showHelp() {
	fmt.Println(`Usage: seed [options]

Options:
  -type string   Type of seeding: all, characters, admin (default "all")
  -help          Show this help message

Environment:
  DATABASE_URL        Postgres connection string (or DB_HOST/DB_PORT/...)
  SEED_ADMIN_EMAIL    Admin account email (default admin@footsteps.local)
  SEED_ADMIN_PASSWORD Admin account password (required for admin seeding)`)
}
