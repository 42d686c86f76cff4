package services

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/model"
	"github.com/on-their-footsteps/footsteps_api/services/repositories"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

func newAuthTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return &AuthService{
		sqlSvc: &PostgresService{db: db},
		jwtSvc: &JWTService{
			AccessTokenDuration:  time.Hour,
			RefreshTokenDuration: 24 * time.Hour,
			jwtSecretKey:         "test-secret",
		},
		userRepo: repositories.NewUserRepository(db),
	}
}

func registerTestUser(t *testing.T, svc *AuthService) *dto.RegisterResponse {
	t.Helper()

	resp, err := svc.Register(dto.RegisterRequest{
		Email:    "user@example.com",
		Username: "johndoe",
		Password: "SecurePass123!",
	})
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc := newAuthTestService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "user@example.com",
		Username: "someoneelse",
		Password: "SecurePass123!",
	})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Errorf("expected a 409 conflict, got %v", err)
	}
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	svc := newAuthTestService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "other@example.com",
		Username: "johndoe",
		Password: "SecurePass123!",
	})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Errorf("expected a 409 conflict, got %v", err)
	}
}

func TestLogin_ByEmailAndUsername(t *testing.T) {
	svc := newAuthTestService(t)
	registerTestUser(t, svc)

	for _, identifier := range []string{"user@example.com", "johndoe"} {
		resp, err := svc.Login(dto.LoginRequest{EmailOrUsername: identifier, Password: "SecurePass123!"}, "127.0.0.1")
		if err != nil {
			t.Fatalf("login with %q failed: %v", identifier, err)
		}
		if resp.AccessToken == "" || resp.RefreshToken == "" {
			t.Errorf("login with %q returned empty tokens", identifier)
		}
		if resp.User.Username != "johndoe" {
			t.Errorf("unexpected user in response: %+v", resp.User)
		}
	}
}

// Unknown accounts and wrong passwords must be indistinguishable to the
// caller.
func TestLogin_FailuresAreGeneric(t *testing.T) {
	svc := newAuthTestService(t)
	registerTestUser(t, svc)

	_, errUnknown := svc.Login(dto.LoginRequest{EmailOrUsername: "nobody@example.com", Password: "SecurePass123!"}, "127.0.0.1")
	_, errBadPass := svc.Login(dto.LoginRequest{EmailOrUsername: "johndoe", Password: "WrongPass123!"}, "127.0.0.1")

	for _, err := range []error{errUnknown, errBadPass} {
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != 401 {
			t.Fatalf("expected a 401, got %v", err)
		}
		if appErr.Message != "Unauthorized access" {
			t.Errorf("login failure leaked detail: %q", appErr.Message)
		}
	}
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	svc := newAuthTestService(t)
	registerTestUser(t, svc)

	login, err := svc.Login(dto.LoginRequest{EmailOrUsername: "johndoe", Password: "SecurePass123!"}, "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	pair, err := svc.RefreshToken(dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatal(err)
	}
	if pair.AccessToken == "" {
		t.Error("expected a fresh access token")
	}

	// An access token is not a refresh token.
	if _, err := svc.RefreshToken(dto.RefreshTokenRequest{RefreshToken: login.AccessToken}); err == nil {
		t.Error("refreshing with an access token must fail")
	}
}

func newAuthMiddlewareTestApp(t *testing.T, svc *AuthService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: (&HttpService{}).handleError})
	app.Use(svc.OptionalAuth())

	app.Get("/whoami", func(c *fiber.Ctx) error {
		userID, _ := c.Locals(shared.UserID).(string)
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", userID)
	})
	app.Get("/private", svc.RequiredAuth(), func(c *fiber.Ctx) error {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
	})
	app.Get("/admin", svc.RequiredAuth(), svc.RequireRole(shared.RoleAdmin), func(c *fiber.Ctx) error {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	svc := newAuthTestService(t)
	registerTestUser(t, svc)

	login, err := svc.Login(dto.LoginRequest{EmailOrUsername: "johndoe", Password: "SecurePass123!"}, "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	app := newAuthMiddlewareTestApp(t, svc)

	cases := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"optional auth passes anonymous", "/whoami", "", fiber.StatusOK},
		{"optional auth ignores garbage tokens", "/whoami", "Bearer not-a-token", fiber.StatusOK},
		{"required auth rejects anonymous", "/private", "", fiber.StatusUnauthorized},
		{"required auth accepts valid token", "/private", "Bearer " + login.AccessToken, fiber.StatusOK},
		{"refresh token cannot access routes", "/private", "Bearer " + login.RefreshToken, fiber.StatusUnauthorized},
		{"role check rejects plain users", "/admin", "Bearer " + login.AccessToken, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
		})
	}
}
