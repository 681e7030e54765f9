package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/smartschool/admin-backend/internal/captcha"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/middleware"
	"github.com/smartschool/admin-backend/internal/services"
)

// forgotPasswordMessage is returned whether or not the email belongs to an
// account, to avoid leaking account existence.
const forgotPasswordMessage = "If that email address is in our database, we will send you a password recovery link."

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	resp, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return respondError(c, fiber.StatusForbidden, dto.CodeInvalidCredentials,
				"Email or password seems to be wrong, please try again with valid credentials.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	resp, err := h.authService.SignUp(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return respondError(c, fiber.StatusForbidden, dto.CodeDuplicateAccount, "User already exists")
		}
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	err := h.authService.ForgotPassword(c.Context(), req.Email, req.CaptchaToken)
	if err != nil {
		switch {
		case errors.Is(err, captcha.ErrTokenRequired):
			return respondError(c, fiber.StatusForbidden, dto.CodeCaptcha, "Captcha token is required.")
		case errors.Is(err, captcha.ErrRejected):
			return respondError(c, fiber.StatusForbidden, dto.CodeCaptcha, err.Error())
		case errors.Is(err, captcha.ErrUnavailable):
			return respondError(c, fiber.StatusInternalServerError, dto.CodeCaptcha,
				"Error verifying captcha. Please try again later.")
		}
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: forgotPasswordMessage})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenInvalid):
			return respondError(c, fiber.StatusBadRequest, dto.CodeInvalidToken,
				"Password reset token is invalid or has expired.")
		case errors.Is(err, services.ErrTokenMismatch):
			return respondError(c, fiber.StatusBadRequest, dto.CodeTokenMismatch,
				"Invalid token for this user.")
		}
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Password has been reset successfully."})
}

func (h *AuthHandler) SetPassword(c *fiber.Ctx) error {
	var req dto.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	if err := h.authService.SetPassword(req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenInvalid):
			return respondError(c, fiber.StatusBadRequest, dto.CodeInviteToken,
				"Invitation token is invalid or has expired.")
		case errors.Is(err, services.ErrUserNotFound):
			return respondError(c, fiber.StatusBadRequest, dto.CodeNotFound, "User not found.")
		case errors.Is(err, services.ErrPasswordAlreadySet):
			return respondError(c, fiber.StatusBadRequest, dto.CodeAlreadySet,
				"Password has already been set for this account.")
		}
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Password set successfully. Your account is now active."})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, dto.CodeAuthRequired, "Unauthorized")
	}

	user, err := h.authService.GetUserDetails(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeNotFound, "User not found.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.UserDetailsResponse{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		Permissions: user.Permissions,
	})
}
