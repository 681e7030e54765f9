package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/smartschool/admin-backend/internal/dto"
	"github.com/smartschool/admin-backend/internal/models"
	"github.com/smartschool/admin-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteUser(t *testing.T) {
	t.Run("creates a pending member with read-only defaults", func(t *testing.T) {
		f := newFixture(t)
		admin := f.createUser(t, "admin@school.test", "pass", models.RoleAdmin, models.Permissions{CanCreate: true})
		org := f.createOrg(t, "Sunrise Public School", admin)

		invited, err := f.users.Invite(org.ID, &dto.InviteUserRequest{
			Email: "new.parent@school.test",
			Name:  "New Parent",
			Role:  models.RoleParent,
		}, admin)
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, invited.Status)
		assert.Equal(t, models.DefaultInvitePermissions(), invited.Permissions)

		member, err := f.orgs.IsMember(org.ID, invited.ID)
		require.NoError(t, err)
		assert.True(t, member)

		reloaded := f.reloadUser(t, invited.ID)
		require.True(t, reloaded.HasResetToken())
		requireTokenFieldsConsistent(t, reloaded)

		require.Len(t, f.mail.sent, 1)
		assert.Equal(t, "new.parent@school.test", f.mail.sent[0].To)
		assert.Contains(t, f.mail.sent[0].HTML, f.cfg.FrontendURL+"/set-password/")
		assert.Contains(t, f.mail.sent[0].HTML, *reloaded.ResetToken)
	})

	t.Run("honors explicit permission grants", func(t *testing.T) {
		f := newFixture(t)
		admin := f.createUser(t, "admin@school.test", "pass", models.RoleAdmin, models.Permissions{CanCreate: true})
		org := f.createOrg(t, "Sunrise Public School", admin)

		invited, err := f.users.Invite(org.ID, &dto.InviteUserRequest{
			Email:       "staff@school.test",
			Role:        models.RoleAdmin,
			Permissions: &models.Permissions{CanCreate: true, CanRead: true, CanUpdate: true},
		}, admin)
		require.NoError(t, err)

		assert.True(t, invited.Permissions.CanCreate)
		assert.True(t, invited.Permissions.CanUpdate)
		assert.False(t, invited.Permissions.CanDelete)
	})

	t.Run("rejects an unknown organization", func(t *testing.T) {
		f := newFixture(t)
		admin := f.createUser(t, "admin@school.test", "pass", models.RoleAdmin, models.Permissions{})

		_, err := f.users.Invite(uuid.New(), &dto.InviteUserRequest{
			Email: "x@school.test",
			Role:  models.RoleParent,
		}, admin)
		assert.ErrorIs(t, err, services.ErrOrganizationNotFound)
	})

	t.Run("rejects an email that is already registered", func(t *testing.T) {
		f := newFixture(t)
		admin := f.createUser(t, "admin@school.test", "pass", models.RoleAdmin, models.Permissions{})
		org := f.createOrg(t, "Sunrise Public School", admin)

		_, err := f.users.Invite(org.ID, &dto.InviteUserRequest{
			Email: "admin@school.test",
			Role:  models.RoleParent,
		}, admin)
		assert.ErrorIs(t, err, services.ErrEmailTaken)
	})
}

func TestReinvite(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "admin@school.test", "pass", models.RoleAdmin, models.Permissions{CanCreate: true})
	org := f.createOrg(t, "Sunrise Public School", admin)

	invited, err := f.users.Invite(org.ID, &dto.InviteUserRequest{
		Email: "pending@school.test",
		Role:  models.RoleParent,
	}, admin)
	require.NoError(t, err)
	firstToken := *f.reloadUser(t, invited.ID).ResetToken

	t.Run("reissues a fresh token for a pending account", func(t *testing.T) {
		_, err := f.users.Reinvite(invited.ID, admin)
		require.NoError(t, err)

		reloaded := f.reloadUser(t, invited.ID)
		require.True(t, reloaded.HasResetToken())
		assert.NotEqual(t, firstToken, *reloaded.ResetToken)
		assert.Len(t, f.mail.sent, 2)
	})

	t.Run("refuses an active account", func(t *testing.T) {
		_, err := f.users.Reinvite(admin.ID, admin)
		assert.ErrorIs(t, err, services.ErrOnlyPendingReinvite)
	})

	t.Run("refuses an unknown account", func(t *testing.T) {
		_, err := f.users.Reinvite(uuid.New(), admin)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "admin@school.test", "pass", models.RoleAdmin, models.Permissions{CanCreate: true})
	org := f.createOrg(t, "Sunrise Public School", admin)
	other := f.createOrg(t, "Moonlight Academy", admin)

	for _, email := range []string{"p1@school.test", "p2@school.test", "p3@school.test"} {
		_, err := f.users.Invite(org.ID, &dto.InviteUserRequest{Email: email, Role: models.RoleParent}, admin)
		require.NoError(t, err)
	}
	_, err := f.users.Invite(other.ID, &dto.InviteUserRequest{Email: "elsewhere@school.test", Role: models.RoleParent}, admin)
	require.NoError(t, err)

	t.Run("scopes results to the organization", func(t *testing.T) {
		users, total, err := f.users.List(org.ID, services.ListUsersOptions{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total) // three parents plus the creator
		assert.Len(t, users, 4)
		for _, u := range users {
			assert.NotEqual(t, "elsewhere@school.test", u.Email)
		}
	})

	t.Run("filters by role and status", func(t *testing.T) {
		_, total, err := f.users.List(org.ID, services.ListUsersOptions{Role: models.RoleParent, Status: models.StatusPending})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})

	t.Run("paginates", func(t *testing.T) {
		users, total, err := f.users.List(org.ID, services.ListUsersOptions{Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, users, 1)
	})

	t.Run("rejects an unknown organization", func(t *testing.T) {
		_, _, err := f.users.List(uuid.New(), services.ListUsersOptions{})
		assert.ErrorIs(t, err, services.ErrOrganizationNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "parent@school.test", "pass", models.RoleParent, models.Permissions{CanRead: true})

	updated, err := f.users.Update(user.ID, &dto.UpdateUserRequest{
		Name:        "Renamed Parent",
		Email:       "parent@school.test",
		Role:        models.RoleParent,
		PhoneNumber: "+91 98765 43210",
		Permissions: &models.Permissions{CanRead: true, CanUpdate: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Parent", updated.Name)
	assert.True(t, updated.Permissions.CanUpdate)

	_, err = f.users.Update(uuid.New(), &dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, "admin@school.test", "pass", models.RoleAdmin, models.Permissions{CanCreate: true})
	org := f.createOrg(t, "Sunrise Public School", admin)

	invited, err := f.users.Invite(org.ID, &dto.InviteUserRequest{Email: "gone@school.test", Role: models.RoleParent}, admin)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(org.ID, invited.ID))

	member, err := f.orgs.IsMember(org.ID, invited.ID)
	require.NoError(t, err)
	assert.False(t, member)

	_, err = f.users.GetByID(invited.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
