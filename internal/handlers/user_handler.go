package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/middleware"
	"github.com/smartschool/admin-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Invite(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Organization ID is required.")
	}

	var req dto.InviteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	inviter := middleware.CurrentUser(c)
	user, err := h.userService.Invite(orgID, &req, inviter)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationNotFound):
			return respondError(c, fiber.StatusNotFound, dto.CodeOrgNotFound, "Organization not found.")
		case errors.Is(err, services.ErrEmailTaken):
			return respondError(c, fiber.StatusConflict, dto.CodeDuplicateUser, "User with this email already exists.")
		}
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User invited successfully.",
		"item":    user,
	})
}

func (h *UserHandler) Reinvite(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid user ID format")
	}

	inviter := middleware.CurrentUser(c)
	user, err := h.userService.Reinvite(userID, inviter)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return respondError(c, fiber.StatusNotFound, dto.CodeNotFound, "User not found.")
		case errors.Is(err, services.ErrOnlyPendingReinvite):
			return respondError(c, fiber.StatusBadRequest, dto.CodeInvalidState, "Only pending users can be reinvited.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User reinvited successfully",
		"user": fiber.Map{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"status": user.Status,
		},
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Organization ID is required.")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	users, total, err := h.userService.List(orgID, services.ListUsersOptions{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search_term"),
		Status: c.Query("status"),
		Role:   c.Query("role"),
	})
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeOrgNotFound, "Organization not found.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.UserListResponse{Items: users, TotalCount: total})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid user ID format")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	user, err := h.userService.Update(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return respondError(c, fiber.StatusNotFound, dto.CodeNotFound, "User not found.")
		case errors.Is(err, services.ErrEmailTaken):
			return respondError(c, fiber.StatusConflict, dto.CodeDuplicateUser, "User with this email already exists.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"item":    user,
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Organization ID is required.")
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid user ID format")
	}

	if err := h.userService.Delete(orgID, userID); err != nil {
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "User deleted successfully."})
}
