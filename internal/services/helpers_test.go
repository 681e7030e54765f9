package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/config"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/mailer"
	"github.com/smartschool/admin-backend/internal/models"
	"github.com/smartschool/admin-backend/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite gives every connection its own database, so the pool
	// must be pinned to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Organization{}, &models.StudentProfile{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "session-secret",
		SessionTokenTTL: time.Hour,
		ResetSecret:     "reset-secret",
		ResetTokenTTL:   time.Hour,
		InviteTokenTTL:  48 * time.Hour,
		FrontendURL:     "http://localhost:3000",
	}
}

// recordMailer captures outgoing messages instead of delivering them. A
// non-nil err makes every Send fail.
type recordMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordMailer) Send(msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// stubCaptcha approves or rejects every token with a fixed result.
type stubCaptcha struct {
	err error
}

func (s stubCaptcha) Verify(ctx context.Context, token string) error { return s.err }

type fixture struct {
	db      *gorm.DB
	cfg     *config.Config
	tokens  *services.TokenService
	mail    *recordMailer
	captcha *stubCaptcha
	auth    *services.AuthService
	users   *services.UserService
	orgs    *services.OrganizationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()
	tokens := services.NewTokenService(cfg)
	mail := &recordMailer{}
	verifier := &stubCaptcha{}

	return &fixture{
		db:      db,
		cfg:     cfg,
		tokens:  tokens,
		mail:    mail,
		captcha: verifier,
		auth:    services.NewAuthService(db, cfg, tokens, mail, verifier),
		users:   services.NewUserService(db, cfg, tokens, mail),
		orgs:    services.NewOrganizationService(db),
	}
}

func (f *fixture) createUser(t *testing.T, email, password, role string, perms models.Permissions) *models.User {
	t.Helper()

	resp, err := f.auth.SignUp(&dto.SignUpRequest{
		Email:       email,
		Password:    password,
		Role:        role,
		Permissions: &perms,
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, f.db.Where("id = ?", resp.ID).First(&user).Error)
	return &user
}

func (f *fixture) createOrg(t *testing.T, name string, creator *models.User) *models.Organization {
	t.Helper()

	org, err := f.orgs.Create(&dto.CreateOrganizationRequest{
		Name:     name,
		Location: "Pune",
		Pincode:  "411001",
	}, creator)
	require.NoError(t, err)
	return org
}

func (f *fixture) reloadUser(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, f.db.Where("id = ?", id).First(&user).Error)
	return &user
}

func (f *fixture) reloadUserByEmail(t *testing.T, email string) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, f.db.Where("email = ?", email).First(&user).Error)
	return &user
}

// requireTokenFieldsConsistent asserts that the stored reset token and its
// expiry are either both present or both absent.
func requireTokenFieldsConsistent(t *testing.T, user *models.User) {
	t.Helper()

	if user.ResetToken != nil {
		require.NotNil(t, user.ResetTokenExpiry, "token set without expiry")
	} else {
		require.Nil(t, user.ResetTokenExpiry, "expiry set without token")
	}
}
