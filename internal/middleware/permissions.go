package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/models"
	"gorm.io/gorm"
)

// Capability actions gated by per-user permission flags.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const localsUserKey = "currentUser"

// CurrentUser returns the account loaded by a permission middleware earlier
// in the chain, if any.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(localsUserKey).(*models.User); ok {
		return user
	}
	return nil
}

// LoadUser resolves the authenticated account into locals without gating.
// Routes that are open to any member but whose handler needs the account
// (e.g. organization listing) use this instead of a permission gate.
func LoadUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, resp := loadCurrentUser(c, db)
		if user == nil {
			return resp
		}
		return c.Next()
	}
}

// RequireCan gates a route on a capability flag. The loaded account is cached
// in locals so stacked middlewares and handlers reuse one lookup.
func RequireCan(db *gorm.DB, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, resp := loadCurrentUser(c, db)
		if user == nil {
			return resp
		}

		allowed := false
		switch action {
		case ActionCreate:
			allowed = user.Permissions.CanCreate
		case ActionRead:
			allowed = user.Permissions.CanRead
		case ActionUpdate:
			allowed = user.Permissions.CanUpdate
		case ActionDelete:
			allowed = user.Permissions.CanDelete
		}

		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Code:    dto.CodeForbidden,
				Message: "You don't have permission to " + action + " resources",
			})
		}
		return c.Next()
	}
}

// RequireAdmin gates a route on the admin role.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, resp := loadCurrentUser(c, db)
		if user == nil {
			return resp
		}

		if user.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Code:    dto.CodeForbidden,
				Message: "You don't have permission to perform this action",
			})
		}
		return c.Next()
	}
}

// RequireGlobalAdmin gates a route on the global-admin flag.
func RequireGlobalAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, resp := loadCurrentUser(c, db)
		if user == nil {
			return resp
		}

		if !user.Permissions.IsGlobalAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Code:    dto.CodeForbidden,
				Message: "You don't have permission to perform this action",
			})
		}
		return c.Next()
	}
}

// loadCurrentUser resolves the authenticated account, caching it in locals.
// On failure the response has already been written; callers return the
// second value as-is.
func loadCurrentUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	if user := CurrentUser(c); user != nil {
		return user, nil
	}

	userID, err := CurrentUserID(c)
	if err != nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    dto.CodeAuthRequired,
			Message: "Authentication required",
		})
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    dto.CodeUserNotFound,
			Message: "User not found",
		})
	}

	c.Locals(localsUserKey, &user)
	return &user, nil
}
