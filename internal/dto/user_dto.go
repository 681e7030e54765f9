package dto

import "github.com/smartschool/admin-backend/internal/models"

type InviteUserRequest struct {
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	PhoneNumber string              `json:"phone_number"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
}

type UpdateUserRequest struct {
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	PhoneNumber string              `json:"phone_number"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
}

type UserListResponse struct {
	Items      []models.User `json:"items"`
	TotalCount int64         `json:"total_count"`
}
