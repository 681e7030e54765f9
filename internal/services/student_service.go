package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/models"
	"gorm.io/gorm"
)

var ErrStudentNotFound = errors.New("student profile not found")

type ListStudentsOptions struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// StudentService manages student profiles. Creating a profile for an unknown
// parent email auto-creates a pending parent account and sends an invite,
// reusing the user service's invitation lifecycle.
type StudentService struct {
	db    *gorm.DB
	users *UserService
}

func NewStudentService(db *gorm.DB, users *UserService) *StudentService {
	return &StudentService{db: db, users: users}
}

// Create adds a student profile. It returns true when a parent invitation
// was sent as part of the call.
func (s *StudentService) Create(orgID uuid.UUID, req *dto.CreateStudentProfileRequest, requester *models.User) (bool, error) {
	if req.FullName == "" {
		return false, NewValidationError("student full name is required")
	}
	if req.ParentEmail == "" {
		return false, NewValidationError("parent email is required")
	}

	var org models.Organization
	if err := s.db.Where("id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrOrganizationNotFound
		}
		return false, fmt.Errorf("failed to look up organization: %w", err)
	}

	inviteSent := false
	var parent models.User
	err := s.db.Where("email = ?", req.ParentEmail).First(&parent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		parent = models.User{
			ID:          uuid.New(),
			Email:       req.ParentEmail,
			Name:        req.ParentName,
			PhoneNumber: req.PhoneNumber,
			Role:        models.RoleParent,
			Status:      models.StatusPending,
			Permissions: models.DefaultInvitePermissions(),
		}
		if err := s.db.Create(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return false, ErrEmailTaken
			}
			return false, fmt.Errorf("failed to create parent user: %w", err)
		}
		if err := s.db.Model(&org).Association("Users").Append(&parent); err != nil {
			return false, fmt.Errorf("failed to attach parent to organization: %w", err)
		}
		if err := s.users.IssueInvite(&parent, inviterDisplayName(requester), "Invitation to Join"); err != nil {
			return false, err
		}
		inviteSent = true
	} else if err != nil {
		return false, fmt.Errorf("failed to look up parent: %w", err)
	}

	profile := models.StudentProfile{
		ID:              uuid.New(),
		FullName:        req.FullName,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		Country:         req.Country,
		DateOfBirth:     req.DateOfBirth,
		Division:        req.Division,
		ClassID:         req.ClassID,
		RollNumber:      req.RollNumber,
		AdmissionNumber: req.AdmissionNumber,
		AdmissionDate:   req.AdmissionDate,
		RegistrationID:  req.RegistrationID,
		ParentID:        parent.ID,
		OrganizationID:  org.ID,
		Status:          models.StatusActive,
	}
	if profile.Country == "" {
		profile.Country = "IN"
	}

	if err := s.db.Create(&profile).Error; err != nil {
		return false, fmt.Errorf("failed to create student profile: %w", err)
	}

	return inviteSent, nil
}

// GetParentByEmail looks up a parent account within the organization. A
// missing parent or non-member is not an error; the second return value
// reports existence.
func (s *StudentService) GetParentByEmail(orgID uuid.UUID, email string) (*models.User, bool, error) {
	var org models.Organization
	if err := s.db.Where("id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrOrganizationNotFound
		}
		return nil, false, fmt.Errorf("failed to look up organization: %w", err)
	}

	var parent models.User
	if err := s.db.Where("email = ?", email).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to look up parent: %w", err)
	}

	var count int64
	err := s.db.Table("organization_users").
		Where("organization_id = ? AND user_id = ?", orgID, parent.ID).
		Count(&count).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to check membership: %w", err)
	}
	if count == 0 {
		return nil, false, nil
	}

	return &parent, true, nil
}

func (s *StudentService) List(orgID uuid.UUID, opts ListStudentsOptions) ([]models.StudentProfile, int64, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 100
	}

	q := s.db.Model(&models.StudentProfile{}).Where("organization_id = ?", orgID)
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("full_name ILIKE ? OR roll_number ILIKE ? OR admission_number ILIKE ?", pattern, pattern, pattern)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count student profiles: %w", err)
	}

	var profiles []models.StudentProfile
	err := q.Order("created_at DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list student profiles: %w", err)
	}

	return profiles, total, nil
}

func (s *StudentService) GetByID(orgID, studentID uuid.UUID) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := s.db.Where("id = ? AND organization_id = ?", studentID, orgID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to look up student profile: %w", err)
	}
	return &profile, nil
}

func (s *StudentService) Update(orgID, studentID uuid.UUID, req *dto.UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	profile, err := s.GetByID(orgID, studentID)
	if err != nil {
		return nil, err
	}

	if req.Status != "" &&
		req.Status != models.StatusActive &&
		req.Status != models.StatusInactive &&
		req.Status != models.StatusSuspended {
		return nil, NewValidationError("status must be active, inactive or suspended")
	}

	profile.FullName = req.FullName
	profile.Address = req.Address
	profile.City = req.City
	profile.State = req.State
	profile.Pincode = req.Pincode
	if req.Country != "" {
		profile.Country = req.Country
	}
	profile.DateOfBirth = req.DateOfBirth
	profile.Division = req.Division
	profile.ClassID = req.ClassID
	profile.RollNumber = req.RollNumber
	profile.AdmissionNumber = req.AdmissionNumber
	profile.AdmissionDate = req.AdmissionDate
	profile.RegistrationID = req.RegistrationID
	if req.Status != "" {
		profile.Status = req.Status
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update student profile: %w", err)
	}
	return profile, nil
}
