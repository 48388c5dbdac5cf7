package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/model"
)

func TestUserService_ToggleSaved(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	owner := storeUser(t, repos, "owner@x.com", model.RoleUser)
	user := storeUser(t, repos, "user@x.com", model.RoleUser)
	visible, err := model.NewProperty(owner.ID, testDraft("Visible", 100))
	require.NoError(t, err)
	require.NoError(t, repos.Properties.Create(ctx, visible))
	hidden, err := model.NewProperty(owner.ID, testDraft("Hidden", 100))
	require.NoError(t, err)
	require.NoError(t, repos.Properties.Create(ctx, hidden))
	svc := NewUserService(repos.Users, repos.Properties)

	saved, err := svc.ToggleSaved(ctx, user, visible.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	require.NoError(t, repos.Properties.SetActive(ctx, hidden.ID, false))
	_, err = svc.ToggleSaved(ctx, user, hidden.ID)
	assert.Equal(t, apperrors.ErrPropertyNotFound, err)
	_, err = svc.ToggleSaved(ctx, user, uuid.New())
	assert.Equal(t, apperrors.ErrPropertyNotFound, err)
	_, err = svc.ToggleSaved(ctx, model.Anonymous(), visible.ID)
	assert.Equal(t, apperrors.ErrInvalidToken, err)

	list, err := svc.SavedProperties(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, visible.ID, list[0].ID)

	// A listing hidden after it was saved drops out of the list but can still be unsaved.
	require.NoError(t, repos.Properties.SetFlag(ctx, visible.ID, true, "spam"))
	profile, err := svc.Profile(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, profile.Saved)
	assert.Equal(t, []uuid.UUID{visible.ID}, profile.SavedProperties)

	saved, err = svc.ToggleSaved(ctx, user, visible.ID)
	require.NoError(t, err)
	assert.False(t, saved)
	ids, err := repos.Users.SavedPropertyIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUserService_UpdateProfile(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	user := storeUser(t, repos, "user@x.com", model.RoleUser)
	svc := NewUserService(repos.Users, repos.Properties)

	name := "  New Name "
	updated, err := svc.UpdateProfile(ctx, user, model.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, model.RoleUser, updated.Role)

	empty := ""
	_, err = svc.UpdateProfile(ctx, user, model.ProfilePatch{Phone: &empty})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	blocked := user
	blocked.Blocked = true
	_, err = svc.UpdateProfile(ctx, blocked, model.ProfilePatch{Name: &name})
	assert.Equal(t, apperrors.ErrAccountBlocked, err)
}

func TestUserService_AdminManagement(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	admin := storeUser(t, repos, "admin@x.com", model.RoleAdmin)
	user := storeUser(t, repos, "user@x.com", model.RoleUser)
	other := storeUser(t, repos, "other@x.com", model.RoleUser)
	svc := NewUserService(repos.Users, repos.Properties)

	_, err := svc.ListUsers(ctx, user)
	assert.Equal(t, apperrors.ErrNotAuthorized, err)
	users, err := svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	role := model.RoleAdmin
	promoted, err := svc.UpdateUser(ctx, admin, user.ID, model.UserPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	taken := "OTHER@x.com"
	_, err = svc.UpdateUser(ctx, admin, user.ID, model.UserPatch{Email: &taken})
	assert.Equal(t, apperrors.ErrEmailTaken, err)

	bogus := model.Role("root")
	_, err = svc.UpdateUser(ctx, admin, user.ID, model.UserPatch{Role: &bogus})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	require.NoError(t, svc.DeleteUser(ctx, admin, other.ID))
	_, err = svc.GetUser(ctx, admin, other.ID)
	assert.Equal(t, apperrors.ErrUserNotFound, err)
	assert.Equal(t, apperrors.ErrUserNotFound, svc.DeleteUser(ctx, admin, other.ID))
}
