package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/config"
	"github.com/smartschool/admin-backend/internal/models"
)

// ErrTokenInvalid covers bad signatures, malformed claims and expired tokens.
var ErrTokenInvalid = errors.New("token is invalid or has expired")

// TokenService signs and verifies the two token families: short-lived session
// tokens and reset/invite tokens. The two use separate signing secrets so a
// leaked reset token can never double as a session.
type TokenService struct {
	sessionSecret []byte
	resetSecret   []byte
	sessionTTL    time.Duration
	resetTTL      time.Duration
	inviteTTL     time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		sessionSecret: []byte(cfg.JWTSecret),
		resetSecret:   []byte(cfg.ResetSecret),
		sessionTTL:    cfg.SessionTokenTTL,
		resetTTL:      cfg.ResetTokenTTL,
		inviteTTL:     cfg.InviteTokenTTL,
	}
}

// SignSession issues the session token returned by signin/signup.
func (t *TokenService) SignSession(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(t.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.sessionSecret)
}

// VerifySession validates a session token and returns the subject account id.
func (t *TokenService) VerifySession(token string) (uuid.UUID, error) {
	claims, err := t.parse(token, t.sessionSecret)
	if err != nil {
		return uuid.Nil, err
	}
	return subjectID(claims, "sub")
}

// SignReset issues a 1-hour password-reset token.
func (t *TokenService) SignReset(userID uuid.UUID) (string, error) {
	return t.Mint(userID, t.resetTTL)
}

// SignInvite issues a 48-hour invitation token. Construction is identical to
// the reset token; only the validity window differs.
func (t *TokenService) SignInvite(userID uuid.UUID) (string, error) {
	return t.Mint(userID, t.inviteTTL)
}

// Mint signs a reset-family token with an explicit validity window. The
// payload carries a fresh 32-byte random value so two tokens for the same
// account are never equal.
func (t *TokenService) Mint(userID uuid.UUID, ttl time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token payload: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"data":    hex.EncodeToString(raw),
		"user_id": userID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.resetSecret)
}

// VerifyReset validates a reset/invite token's signature and expiry claim and
// returns the account id it was minted for. This is independent of the stored
// token check the caller performs against the account record.
func (t *TokenService) VerifyReset(token string) (uuid.UUID, error) {
	claims, err := t.parse(token, t.resetSecret)
	if err != nil {
		return uuid.Nil, err
	}
	return subjectID(claims, "user_id")
}

func (t *TokenService) parse(token string, secret []byte) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func subjectID(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}
