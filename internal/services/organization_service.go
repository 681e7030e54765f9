package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/models"
	"gorm.io/gorm"
)

// OrganizationService manages school tenants and their membership.
type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// ListForUser returns every organization for global admins, otherwise only
// the organizations the user is a member of.
func (s *OrganizationService) ListForUser(user *models.User) ([]models.Organization, error) {
	var orgs []models.Organization

	q := s.db.Model(&models.Organization{})
	if !user.Permissions.IsGlobalAdmin {
		q = q.Joins("JOIN organization_users ou ON ou.organization_id = organizations.id").
			Where("ou.user_id = ?", user.ID)
	}

	if err := q.Order("organizations.created_at DESC").Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

func (s *OrganizationService) GetByID(orgID uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.Where("id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to look up organization: %w", err)
	}
	return &org, nil
}

// Create registers a new organization with the creator as its first member.
func (s *OrganizationService) Create(req *dto.CreateOrganizationRequest, creator *models.User) (*models.Organization, error) {
	if err := validateOrgFields(req.Name, req.Location, req.Pincode); err != nil {
		return nil, err
	}

	country := req.Country
	if country == "" {
		country = "IN"
	}

	org := models.Organization{
		ID:          uuid.New(),
		Name:        req.Name,
		Location:    req.Location,
		Pincode:     req.Pincode,
		Country:     country,
		Description: req.Description,
		Status:      models.StatusActive,
		CreatedBy:   creator.ID,
		UpdatedBy:   creator.ID,
	}

	if err := s.db.Create(&org).Error; err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	if err := s.db.Model(&org).Association("Users").Append(creator); err != nil {
		return nil, fmt.Errorf("failed to attach creator to organization: %w", err)
	}

	return &org, nil
}

func (s *OrganizationService) Update(orgID uuid.UUID, req *dto.UpdateOrganizationRequest, updater *models.User) (*models.Organization, error) {
	if err := validateOrgFields(req.Name, req.Location, req.Pincode); err != nil {
		return nil, err
	}

	org, err := s.GetByID(orgID)
	if err != nil {
		return nil, err
	}

	org.Name = req.Name
	org.Location = req.Location
	org.Pincode = req.Pincode
	org.Description = req.Description
	org.UpdatedBy = updater.ID

	if err := s.db.Save(org).Error; err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

func (s *OrganizationService) Delete(orgID uuid.UUID) error {
	org, err := s.GetByID(orgID)
	if err != nil {
		return err
	}

	if err := s.db.Model(org).Association("Users").Clear(); err != nil {
		return fmt.Errorf("failed to clear organization membership: %w", err)
	}
	if err := s.db.Delete(org).Error; err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}

func (s *OrganizationService) AddUser(orgID, userID uuid.UUID) error {
	org, err := s.GetByID(orgID)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.db.Model(org).Association("Users").Append(&user); err != nil {
		return fmt.Errorf("failed to add user to organization: %w", err)
	}
	return nil
}

func (s *OrganizationService) RemoveUser(orgID, userID uuid.UUID) error {
	org, err := s.GetByID(orgID)
	if err != nil {
		return err
	}

	target := models.User{ID: userID}
	if err := s.db.Model(org).Association("Users").Delete(&target); err != nil {
		return fmt.Errorf("failed to remove user from organization: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the organization.
func (s *OrganizationService) IsMember(orgID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Table("organization_users").
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

func validateOrgFields(name, location, pincode string) error {
	if name == "" {
		return NewValidationError("organization name is required")
	}
	if location == "" {
		return NewValidationError("organization location is required")
	}
	if pincode == "" {
		return NewValidationError("organization pincode is required")
	}
	return nil
}
