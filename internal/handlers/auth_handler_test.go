package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/smartschool/admin-backend/internal/config"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/handlers"
	"github.com/smartschool/admin-backend/internal/mailer"
	"github.com/smartschool/admin-backend/internal/models"
	"github.com/smartschool/admin-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopMailer struct{}

func (noopMailer) Send(mailer.Message) error { return nil }

type allowAllCaptcha struct{}

func (allowAllCaptcha) Verify(ctx context.Context, token string) error { return nil }

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Organization{}, &models.StudentProfile{}))

	cfg := &config.Config{
		JWTSecret:       "session-secret",
		SessionTokenTTL: time.Hour,
		ResetSecret:     "reset-secret",
		ResetTokenTTL:   time.Hour,
		InviteTokenTTL:  48 * time.Hour,
		FrontendURL:     "http://localhost:3000",
	}
	tokens := services.NewTokenService(cfg)
	authService := services.NewAuthService(db, cfg, tokens, noopMailer{}, allowAllCaptcha{})
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	user := app.Group("/auth/v1/user")
	user.Post("/signin", authHandler.SignIn)
	user.Post("/signup", authHandler.SignUp)
	user.Post("/forgot-password", authHandler.ForgotPassword)
	user.Put("/reset-password", authHandler.ResetPassword)
	user.Put("/set-user-password", authHandler.SetPassword)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestSignUpEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/auth/v1/user/signup", dto.SignUpRequest{
		Email:    "admin@school.test",
		Password: "pass-123",
		Role:     models.RoleAdmin,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "admin@school.test", body.Email)
	assert.NotContains(t, string(raw), "password")

	resp, raw = doJSON(t, app, fiber.MethodPost, "/auth/v1/user/signup", dto.SignUpRequest{
		Email:    "admin@school.test",
		Password: "other-pass",
		Role:     models.RoleAdmin,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var errBody dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errBody))
	assert.Equal(t, dto.CodeDuplicateAccount, errBody.Code)
}

func TestSignInEndpointDoesNotRevealAccountExistence(t *testing.T) {
	app := newTestApp(t)

	_, _ = doJSON(t, app, fiber.MethodPost, "/auth/v1/user/signup", dto.SignUpRequest{
		Email:    "admin@school.test",
		Password: "pass-123",
		Role:     models.RoleAdmin,
	})

	wrongPassResp, wrongPassBody := doJSON(t, app, fiber.MethodPost, "/auth/v1/user/signin", dto.SignInRequest{
		Email:    "admin@school.test",
		Password: "wrong",
	})
	unknownResp, unknownBody := doJSON(t, app, fiber.MethodPost, "/auth/v1/user/signin", dto.SignInRequest{
		Email:    "ghost@school.test",
		Password: "whatever",
	})

	assert.Equal(t, fiber.StatusForbidden, wrongPassResp.StatusCode)
	assert.Equal(t, fiber.StatusForbidden, unknownResp.StatusCode)
	// The two failure modes must be byte-identical.
	assert.Equal(t, wrongPassBody, unknownBody)
}

func TestForgotPasswordEndpointIsUniform(t *testing.T) {
	app := newTestApp(t)

	_, _ = doJSON(t, app, fiber.MethodPost, "/auth/v1/user/signup", dto.SignUpRequest{
		Email:    "admin@school.test",
		Password: "pass-123",
		Role:     models.RoleAdmin,
	})

	knownResp, knownBody := doJSON(t, app, fiber.MethodPost, "/auth/v1/user/forgot-password", dto.ForgotPasswordRequest{
		Email:        "admin@school.test",
		CaptchaToken: "ok",
	})
	unknownResp, unknownBody := doJSON(t, app, fiber.MethodPost, "/auth/v1/user/forgot-password", dto.ForgotPasswordRequest{
		Email:        "ghost@school.test",
		CaptchaToken: "ok",
	})

	assert.Equal(t, fiber.StatusOK, knownResp.StatusCode)
	assert.Equal(t, fiber.StatusOK, unknownResp.StatusCode)
	assert.Equal(t, knownBody, unknownBody)
}

func TestResetPasswordEndpointRejectsBadToken(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodPut, "/auth/v1/user/reset-password", dto.ResetPasswordRequest{
		Token:    "garbage",
		Password: "new-pass",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errBody dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errBody))
	assert.Equal(t, dto.CodeInvalidToken, errBody.Code)
}

func TestSetPasswordEndpointRejectsBadToken(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodPut, "/auth/v1/user/set-user-password", dto.SetPasswordRequest{
		Token:    "garbage",
		Password: "new-pass",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errBody dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &errBody))
	assert.Equal(t, dto.CodeInviteToken, errBody.Code)
}
