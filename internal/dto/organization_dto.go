package dto

import "github.com/smartschool/admin-backend/internal/models"

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Pincode     string `json:"pincode"`
	Country     string `json:"country"`
	Description string `json:"description"`
}

type UpdateOrganizationRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Pincode     string `json:"pincode"`
	Description string `json:"description"`
}

type OrganizationListResponse struct {
	Items []models.Organization `json:"items"`
}
