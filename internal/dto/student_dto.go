package dto

import "github.com/smartschool/admin-backend/internal/models"

// CreateStudentProfileRequest carries the student fields plus the parent's
// contact details. An unknown parent email triggers a pending-parent invite.
type CreateStudentProfileRequest struct {
	FullName        string `json:"full_name"`
	ParentEmail     string `json:"parent_email"`
	ParentName      string `json:"parent_name"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Pincode         string `json:"pincode"`
	Country         string `json:"country"`
	DateOfBirth     string `json:"date_of_birth"`
	Division        string `json:"division"`
	ClassID         string `json:"class_id"`
	RollNumber      string `json:"roll_number"`
	AdmissionNumber string `json:"admission_number"`
	AdmissionDate   string `json:"admission_date"`
	RegistrationID  string `json:"registration_id"`
}

type UpdateStudentProfileRequest struct {
	FullName        string `json:"full_name"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Pincode         string `json:"pincode"`
	Country         string `json:"country"`
	DateOfBirth     string `json:"date_of_birth"`
	Division        string `json:"division"`
	ClassID         string `json:"class_id"`
	RollNumber      string `json:"roll_number"`
	AdmissionNumber string `json:"admission_number"`
	AdmissionDate   string `json:"admission_date"`
	RegistrationID  string `json:"registration_id"`
	Status          string `json:"status"`
}

type StudentListResponse struct {
	Items      []models.StudentProfile `json:"items"`
	TotalCount int64                   `json:"total_count"`
}

type ParentLookupResponse struct {
	Item           *models.User `json:"item"`
	IsParentExists bool         `json:"is_parent_exists"`
}
