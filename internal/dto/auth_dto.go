package dto

import (
	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/models"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email       string              `json:"email"`
	Password    string              `json:"password"`
	Role        string              `json:"role"`
	Name        string              `json:"name"`
	PhoneNumber string              `json:"phone_number"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
}

type ForgotPasswordRequest struct {
	Email        string `json:"email"`
	CaptchaToken string `json:"captcha_token"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type SetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AuthResponse returns the account's public fields plus a session token.
// Password hashes and reset-token fields never appear here.
type AuthResponse struct {
	ID          uuid.UUID          `json:"id"`
	Email       string             `json:"email"`
	Token       string             `json:"token"`
	Role        string             `json:"role"`
	Name        string             `json:"name"`
	PhoneNumber string             `json:"phone_number"`
	Permissions models.Permissions `json:"permissions"`
}

type UserDetailsResponse struct {
	ID          uuid.UUID          `json:"id"`
	Email       string             `json:"email"`
	Role        string             `json:"role"`
	Name        string             `json:"name"`
	PhoneNumber string             `json:"phone_number"`
	Permissions models.Permissions `json:"permissions"`
}
