package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/on-their-footsteps/footsteps_api/services/handlers"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

// HttpService owns the public API surface. Middleware order is fixed:
// panic recovery wraps everything, the request logger sees every request
// including rejected ones, the rate limiter runs before CORS and auth so
// abusive clients pay for nothing further, and auth runs last so handlers
// can rely on locals being populated.
type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	userSvc       *UserService
	contentSvc    *ContentService
	analyticsSvc  *AnalyticsService
	mediaSvc      *MediaService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.analyticsSvc = svc.Service(ANALYTICS_SVC).(*AnalyticsService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		AppName:               SERVICE_NAME,
		DisableStartupMessage: os.Getenv("LOG_LEVEL") == "INFO",
		ErrorHandler:          svc.handleError,
	})

	app.Use(recover.New())
	app.Use(svc.requestLogger())
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(svc.rateLimitSvc.Limit())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: os.Getenv("CORS_ALLOW_ORIGINS") != "",
	}))
	app.Use(svc.authSvc.OptionalAuth())

	svc.registerRoutes(app)

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.analyticsSvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)
	adminHandler := handlers.NewAdminHandler(svc.userSvc, svc.contentSvc)

	app.Get("/ping", svc.ping)

	api := app.Group("/api")

	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)

	api.Get("/characters", contentHandler.GetCharacters)
	api.Get("/characters/:characterId", contentHandler.GetCharacterDetails)
	api.Get("/categories", contentHandler.GetCategories)
	api.Get("/eras", contentHandler.GetEras)

	api.Post("/analytics/events", analyticsHandler.TrackEvent)
	api.Post("/analytics/pageview", analyticsHandler.TrackPageView)

	api.Get("/analytics", svc.authSvc.RequiredAuth(), svc.authSvc.RequireRole(shared.RoleAdmin), analyticsHandler.GetSummary)
	api.Get("/analytics/events", svc.authSvc.RequiredAuth(), svc.authSvc.RequireRole(shared.RoleAdmin), analyticsHandler.ListEvents)

	me := api.Group("/users/me", svc.authSvc.RequiredAuth())
	me.Get("/", userHandler.GetProfile)
	me.Get("/progress", userHandler.GetProgress)

	api.Post("/characters/:characterId/levels/:levelId/complete", svc.authSvc.RequiredAuth(), userHandler.CompleteLevel)

	admin := api.Group("/admin", svc.authSvc.RequiredAuth(), svc.authSvc.RequireRole(shared.RoleAdmin))
	admin.Get("/stats", adminHandler.GetStats)
	admin.Post("/characters", adminHandler.CreateCharacter)
	admin.Put("/characters/:characterId", adminHandler.UpdateCharacter)
	admin.Delete("/characters/:characterId", adminHandler.DeleteCharacter)
	admin.Post("/characters/:characterId/levels", adminHandler.CreateLevel)
	admin.Post("/levels/:levelId/quizzes", adminHandler.CreateQuiz)
	admin.Post("/characters/:characterId/image", mediaHandler.UploadCharacterImage)
	admin.Delete("/media/:assetId", mediaHandler.DeleteMediaAsset)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

// classifyError maps an error escaping a handler to the status, client-safe
// message and payload the response will carry. handleError writes the
// response from it; the request logger and metrics middleware use the same
// mapping so they record what the client actually received.
func classifyError(err error) (int, string, interface{}) {
	if appErr, ok := shared.GetAppError(err); ok {
		return appErr.StatusCode, appErr.Message, appErr.Data
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "Not Found", nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message, nil
	}

	return http.StatusInternalServerError, "An internal server error occurred", nil
}

// responseStatus resolves the status a request will end with. While an
// error is still propagating the response buffer holds the stale
// pre-handler status, so middleware observing after c.Next must classify
// the error instead of reading the buffer.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	status, _, _ := classifyError(err)
	return status
}

// handleError writes the response for every error escaping a handler.
// Unexpected failures are logged in full and surfaced as a generic 500 so
// internals never reach the client.
func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	status, message, data := classifyError(err)

	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path":   c.Path(),
			"method": c.Method(),
			"error":  err.Error(),
		}).Error("Request failed")
	}

	return shared.ResponseJSON(c, status, message, data)
}

// requestLogger logs one line per request after completion, including
// requests the later stages rejected.
func (svc *HttpService) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := responseStatus(c, err)

		fields := log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  status,
			"latency": time.Since(start).String(),
			"client":  ClientIdentifier(c),
			"bytes":   len(c.Response().Body()),
		}
		if q := string(c.Request().URI().QueryString()); q != "" {
			fields["query"] = q
		}
		if err != nil {
			fields["error"] = err.Error()
		}

		entry := log.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}

		return err
	}
}

func corsOrigins() string {
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		return origins
	}
	return "*"
}
