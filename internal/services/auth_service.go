package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/config"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/mailer"
	"github.com/smartschool/admin-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost matches the legacy service. Do not lower below 12.
const bcryptCost = 12

var (
	// ErrInvalidCredentials is returned both for an unknown email and for a
	// wrong password so responses never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenMismatch      = errors.New("token does not belong to this account")
	ErrPasswordAlreadySet = errors.New("password has already been set for this account")
)

// ValidationError marks a missing or malformed request field.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func NewValidationError(msg string) error { return &ValidationError{msg: msg} }

// CaptchaVerifier gates the password-reset request behind a
// proof-of-humanity check.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}

// AuthService owns password hashing and verification, session issuance and
// the reset/invite token lifecycle.
type AuthService struct {
	db      *gorm.DB
	cfg     *config.Config
	tokens  *TokenService
	mail    mailer.Sender
	captcha CaptchaVerifier
}

func NewAuthService(db *gorm.DB, cfg *config.Config, tokens *TokenService, mail mailer.Sender, captcha CaptchaVerifier) *AuthService {
	return &AuthService{db: db, cfg: cfg, tokens: tokens, mail: mail, captcha: captcha}
}

func (s *AuthService) SignIn(email, password string) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.SignSession(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return authResponse(&user, token), nil
}

func (s *AuthService) SignUp(req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	if req.Email == "" {
		return nil, NewValidationError("email is required")
	}
	if req.Password == "" {
		return nil, NewValidationError("password is required")
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleParent {
		return nil, NewValidationError("role must be admin or parent")
	}

	// Pre-check is an optimization only; the unique index on users.email is
	// the enforcement mechanism under concurrent signups.
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Password:    string(hash),
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		Status:      models.StatusActive,
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.SignSession(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return authResponse(&user, token), nil
}

// ForgotPassword issues a reset token and emails a reset link. It returns nil
// whether or not the email belongs to an account; only the captcha gate and
// infrastructure failures surface to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email, captchaToken string) error {
	if email == "" {
		return NewValidationError("email is required")
	}

	if err := s.captcha.Verify(ctx, captchaToken); err != nil {
		return err
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.tokens.SignReset(user.ID)
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}

	// Persist before attempting delivery: a failed email must never discard
	// an already-valid token.
	expiry := time.Now().Add(s.cfg.ResetTokenTTL)
	update := map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(update).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := s.cfg.FrontendURL + "/reset-password/?token=" + token
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		HTML:    mailer.PasswordResetHTML(resetURL),
	}
	if err := s.mail.Send(msg); err != nil {
		slog.Error("failed to send password reset email", "error", err, "user_id", user.ID.String())
	}

	return nil
}

// ResetPassword consumes an outstanding reset token. The stored-token lookup
// and the signature verification are two independent checks, kept separate on
// purpose.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if newPassword == "" {
		return NewValidationError("password is required")
	}

	var user models.User
	err := s.db.Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	claimID, err := s.tokens.VerifyReset(token)
	if err != nil {
		return ErrTokenInvalid
	}
	if claimID != user.ID {
		return ErrTokenMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.consumeToken(user.ID, token, map[string]interface{}{
		"password":           string(hash),
		"reset_token":        nil,
		"reset_token_expiry": nil,
	})
}

// SetPassword consumes either an invite or a reset token uniformly, setting
// the password and activating the account.
func (s *AuthService) SetPassword(token, newPassword string) error {
	if newPassword == "" {
		return NewValidationError("password is required")
	}

	claimID, err := s.tokens.VerifyReset(token)
	if err != nil {
		return ErrTokenInvalid
	}

	var user models.User
	if err := s.db.Where("id = ?", claimID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	// Replay guard: an active account with a password and no live stored
	// token means this token was already consumed.
	if user.Status == models.StatusActive && user.Password != "" && !tokenLive(&user) {
		return ErrPasswordAlreadySet
	}

	if !tokenLive(&user) || *user.ResetToken != token {
		return ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.consumeToken(user.ID, token, map[string]interface{}{
		"password":           string(hash),
		"reset_token":        nil,
		"reset_token_expiry": nil,
		"status":             models.StatusActive,
	})
}

func (s *AuthService) GetUserDetails(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// consumeToken applies updates only while the stored token still equals the
// presented one, so a token can be consumed exactly once even under
// concurrent attempts.
func (s *AuthService) consumeToken(userID uuid.UUID, token string, updates map[string]interface{}) error {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND reset_token = ?", userID, token).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTokenInvalid
	}
	return nil
}

func tokenLive(u *models.User) bool {
	return u.HasResetToken() && u.ResetTokenExpiry.After(time.Now())
}

func authResponse(user *models.User, token string) *dto.AuthResponse {
	return &dto.AuthResponse{
		ID:          user.ID,
		Email:       user.Email,
		Token:       token,
		Role:        user.Role,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		Permissions: user.Permissions,
	}
}
