package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/on-their-footsteps/footsteps_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Warn("No .env file loaded, relying on environment")
	}

	configureLogging()

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.RedisService{},
		&services.MinIOService{},

		&services.JWTService{},
		&services.AuthService{},
		&services.RateLimitService{},

		&services.AnalyticsService{},
		&services.ContentService{},
		&services.UserService{},
		&services.MediaService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to build service context")
	}

	if err := ctx.Run(); err != nil {
		log.WithError(err).Fatal("Service context stopped")
	}
}

func configureLogging() {
	log.SetFormatter(&log.JSONFormatter{})

	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
