package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/middleware"
	"github.com/smartschool/admin-backend/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, fiber.StatusUnauthorized, dto.CodeAuthRequired, "Authentication required")
	}

	orgs, err := h.orgService.ListForUser(user)
	if err != nil {
		return respondServerError(c, err)
	}

	return c.JSON(dto.OrganizationListResponse{Items: orgs})
}

func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, fiber.StatusUnauthorized, dto.CodeAuthRequired, "Authentication required")
	}

	var req dto.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	org, err := h.orgService.Create(&req, user)
	if err != nil {
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"organization": org})
}

func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Organization ID is required.")
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, fiber.StatusUnauthorized, dto.CodeAuthRequired, "Authentication required")
	}

	var req dto.UpdateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	if _, err := h.orgService.Update(orgID, &req, user); err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeOrgNotFound, "Organization not found.")
		}
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Organization updated successfully."})
}

func (h *OrganizationHandler) Delete(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Organization ID is required.")
	}

	if err := h.orgService.Delete(orgID); err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeOrgNotFound, "Organization not found.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Organization deleted successfully."})
}

func (h *OrganizationHandler) AddUser(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Organization ID is required.")
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid user ID format")
	}

	if err := h.orgService.AddUser(orgID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationNotFound):
			return respondError(c, fiber.StatusNotFound, dto.CodeOrgNotFound, "Organization not found.")
		case errors.Is(err, services.ErrUserNotFound):
			return respondError(c, fiber.StatusNotFound, dto.CodeNotFound, "User not found.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "User added to organization successfully."})
}

func (h *OrganizationHandler) RemoveUser(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Organization ID is required.")
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid user ID format")
	}

	if err := h.orgService.RemoveUser(orgID, userID); err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeOrgNotFound, "Organization not found.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "User removed from organization successfully."})
}
