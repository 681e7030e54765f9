package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/config"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/mailer"
	"github.com/smartschool/admin-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOnlyPendingReinvite  = errors.New("only pending users can be reinvited")
)

type ListUsersOptions struct {
	Page   int
	Limit  int
	Search string
	Status string
	Role   string
}

// UserService manages accounts within an organization, including the
// invitation lifecycle for admin-created users.
type UserService struct {
	db     *gorm.DB
	cfg    *config.Config
	tokens *TokenService
	mail   mailer.Sender
}

func NewUserService(db *gorm.DB, cfg *config.Config, tokens *TokenService, mail mailer.Sender) *UserService {
	return &UserService{db: db, cfg: cfg, tokens: tokens, mail: mail}
}

// Invite creates a pending account attached to the organization and sends an
// invitation email with a 48-hour set-password link.
func (s *UserService) Invite(orgID uuid.UUID, req *dto.InviteUserRequest, inviter *models.User) (*models.User, error) {
	if req.Email == "" {
		return nil, NewValidationError("email is required")
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleParent {
		return nil, NewValidationError("role must be admin or parent")
	}

	var org models.Organization
	if err := s.db.Where("id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to look up organization: %w", err)
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	perms := models.DefaultInvitePermissions()
	if req.Permissions != nil {
		perms = *req.Permissions
	}

	user := models.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		Status:      models.StatusPending,
		Permissions: perms,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.db.Model(&org).Association("Users").Append(&user); err != nil {
		return nil, fmt.Errorf("failed to attach user to organization: %w", err)
	}

	if err := s.IssueInvite(&user, inviterDisplayName(inviter), "Invitation to Join"); err != nil {
		return nil, err
	}

	return &user, nil
}

// Reinvite reissues a fresh invite token for a pending account and resends
// the invitation email.
func (s *UserService) Reinvite(userID uuid.UUID, inviter *models.User) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Status != models.StatusPending {
		return nil, ErrOnlyPendingReinvite
	}

	if err := s.IssueInvite(&user, inviterDisplayName(inviter), "Invitation to Join (Reminder)"); err != nil {
		return nil, err
	}

	return &user, nil
}

// IssueInvite mints a 48-hour invite token, persists it on the account
// (overwriting any outstanding token) and then attempts email delivery.
// Delivery failure is logged, never propagated: the token is already valid.
func (s *UserService) IssueInvite(user *models.User, inviterName, subject string) error {
	token, err := s.tokens.SignInvite(user.ID)
	if err != nil {
		return fmt.Errorf("failed to sign invite token: %w", err)
	}

	expiry := time.Now().Add(s.cfg.InviteTokenTTL)
	update := map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(update).Error; err != nil {
		return fmt.Errorf("failed to store invite token: %w", err)
	}

	recipient := user.Name
	if recipient == "" {
		recipient = user.Email
	}
	inviteURL := s.cfg.FrontendURL + "/set-password/?token=" + token
	msg := mailer.Message{
		To:      user.Email,
		Subject: subject,
		HTML:    mailer.InvitationHTML(recipient, inviterName, inviteURL),
	}
	if err := s.mail.Send(msg); err != nil {
		slog.Error("failed to send invitation email", "error", err, "user_id", user.ID.String())
	}

	return nil
}

// List returns organization members, newest first.
func (s *UserService) List(orgID uuid.UUID, opts ListUsersOptions) ([]models.User, int64, error) {
	var org models.Organization
	if err := s.db.Where("id = ?", orgID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrOrganizationNotFound
		}
		return nil, 0, fmt.Errorf("failed to look up organization: %w", err)
	}

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 100
	}

	q := s.db.Model(&models.User{}).
		Joins("JOIN organization_users ou ON ou.user_id = users.id").
		Where("ou.organization_id = ?", orgID)

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("users.name ILIKE ? OR users.email ILIKE ? OR users.role ILIKE ?", pattern, pattern, pattern)
	}
	if opts.Role != "" {
		q = q.Where("users.role = ?", opts.Role)
	}
	if opts.Status != "" {
		q = q.Where("users.status = ?", opts.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := q.Order("users.created_at DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (s *UserService) GetByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Update(userID uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.PhoneNumber = req.PhoneNumber
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes the account and its organization membership.
func (s *UserService) Delete(orgID, userID uuid.UUID) error {
	org := models.Organization{ID: orgID}
	target := models.User{ID: userID}
	if err := s.db.Model(&org).Association("Users").Delete(&target); err != nil {
		return fmt.Errorf("failed to detach user from organization: %w", err)
	}

	if err := s.db.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func inviterDisplayName(inviter *models.User) string {
	if inviter == nil {
		return "An administrator"
	}
	if inviter.Name != "" {
		return inviter.Name
	}
	return inviter.Email
}
