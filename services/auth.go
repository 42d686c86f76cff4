package services

import (
	"errors"
	"time"

	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/services/repositories"
	"github.com/on-their-footsteps/footsteps_api/shared"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService issues tokens and carries the auth middleware stages.
// OptionalAuth is part of the fixed request pipeline: it attaches identity
// claims when a valid bearer token is present and never rejects on its own.
// Per-route RequiredAuth / RequireRole do the rejecting.
type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService

	userRepo *repositories.UserRepository
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.userRepo = repositories.NewUserRepository(svc.sqlSvc.Db())
	return nil
}

// ==================== ACCOUNT OPERATIONS ====================

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := svc.userRepo.GetUserByEmail(req.Email); err == nil {
		return nil, shared.NewConflictError(errors.New("email taken"), "Email is already registered")
	}
	if _, err := svc.userRepo.GetUserByUsername(req.Username); err == nil {
		return nil, shared.NewConflictError(errors.New("username taken"), "Username is already taken")
	}

	user, err := svc.userRepo.CreateUser(req.Email, req.Username, req.Password)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")

	return &dto.RegisterResponse{
		UserID:  user.ID,
		Message: "Registration successful",
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	user, err := svc.userRepo.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(errors.New("unknown account"))
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, shared.NewUnauthorizedError(errors.New("account disabled"))
	}

	if !svc.userRepo.VerifyPassword(user, req.Password) {
		log.WithFields(log.Fields{"user_id": user.ID, "client_ip": clientIP}).Warn("Failed login attempt")
		return nil, shared.NewUnauthorizedError(errors.New("bad credentials"))
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := svc.userRepo.UpdateUser(user); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User: dto.UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			Role:        user.Role,
			CreatedAt:   user.CreatedAt,
			LastLoginAt: user.LastLoginAt,
		},
	}, nil
}

func (svc *AuthService) RefreshToken(req dto.RefreshTokenRequest) (*dto.TokenPair, error) {
	userID, err := svc.jwtSvc.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err)
	}

	user, err := svc.userRepo.GetUser(userID)
	if err != nil || !user.IsActive {
		return nil, shared.NewUnauthorizedError(errors.New("account unavailable"))
	}

	return svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
}

// ==================== MIDDLEWARE ====================

// OptionalAuth attaches user id and role to the request context when a
// valid bearer token is present. Unauthenticated requests pass through.
func (svc *AuthService) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return c.Next()
		}

		userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil || userID == "" {
			return c.Next()
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(shared.UserID).(string)
		if userID == "" {
			return shared.NewUnauthorizedError(errors.New("missing or invalid bearer token"))
		}
		return c.Next()
	}
}

func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(shared.UserID).(string)
		if userID == "" {
			return shared.NewUnauthorizedError(errors.New("missing or invalid bearer token"))
		}

		userRole, _ := c.Locals(shared.UserRole).(string)
		if userRole != role {
			return shared.NewForbiddenError(errors.New("insufficient role"))
		}
		return c.Next()
	}
}
