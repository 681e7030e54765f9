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

type StudentHandler struct {
	studentService *services.StudentService
}

func NewStudentHandler(studentService *services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) Create(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Invalid organization ID format")
	}

	var req dto.CreateStudentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	requester := middleware.CurrentUser(c)
	inviteSent, err := h.studentService.Create(orgID, &req, requester)
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

	message := "Student added successfully."
	if inviteSent {
		message = "Student added successfully and invite sent."
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: message})
}

func (h *StudentHandler) GetParent(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Invalid organization ID format")
	}

	email := c.Params("email")
	parent, exists, err := h.studentService.GetParentByEmail(orgID, email)
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeOrgNotFound, "Organization not found.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(dto.ParentLookupResponse{Item: parent, IsParentExists: exists})
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Invalid organization ID format")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	profiles, total, err := h.studentService.List(orgID, services.ListStudentsOptions{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search_term"),
		Status: c.Query("status"),
	})
	if err != nil {
		return respondServerError(c, err)
	}

	return c.JSON(dto.StudentListResponse{Items: profiles, TotalCount: total})
}

func (h *StudentHandler) GetByID(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Invalid organization ID format")
	}
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid student ID format")
	}

	profile, err := h.studentService.GetByID(orgID, studentID)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeNotFound, "Student profile not found.")
		}
		return respondServerError(c, err)
	}

	return c.JSON(fiber.Map{"item": profile})
}

func (h *StudentHandler) Edit(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("organizationId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeMissingOrg, "Invalid organization ID format")
	}
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid student ID format")
	}

	var req dto.UpdateStudentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
	}

	profile, err := h.studentService.Update(orgID, studentID, &req)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return respondError(c, fiber.StatusNotFound, dto.CodeNotFound, "Student profile not found.")
		}
		if handled, respErr := respondValidation(c, err); handled {
			return respErr
		}
		return respondServerError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Student profile updated successfully.",
		"item":    profile,
	})
}
