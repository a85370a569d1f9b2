package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stature-backend/internal/events"
	"stature-backend/internal/logger"
	"stature-backend/internal/models"
	"stature-backend/internal/services"
)

func TestEnsureUser_FirstUserIsAdmin(t *testing.T) {
	store := newMemStore()
	identity := newFakeIdentity()
	svc := services.NewUserService(store, identity, nil, logger.Nop())
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "u1", "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.Equal(t, 0, first.Credits)

	second, err := svc.EnsureUser(ctx, "u2", "second@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role)

	again, err := svc.EnsureUser(ctx, "u1", "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, again.Role)

	assert.Equal(t, map[string]string{"u1": models.RoleAdmin, "u2": models.RoleUser}, identity.claims)
}

func TestPromote(t *testing.T) {
	store := newMemStore()
	identity := newFakeIdentity()
	pub := &recordingPublisher{}
	svc := services.NewUserService(store, identity, pub, logger.Nop())
	ctx := context.Background()

	_, err := svc.EnsureUser(ctx, "admin", "")
	require.NoError(t, err)
	_, err = svc.EnsureUser(ctx, "u2", "")
	require.NoError(t, err)

	promoted, err := svc.Promote(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.Equal(t, models.RoleAdmin, identity.claims["u2"])

	again, err := svc.Promote(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, again.IsAdmin())

	_, err = svc.Promote(ctx, "ghost")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	_, err = svc.Promote(ctx, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	promotions := 0
	for _, e := range pub.Events() {
		if e == events.UserPromoted {
			promotions++
		}
	}
	assert.Equal(t, 1, promotions)
}

func TestPromote_RepairsMissingAdminClaim(t *testing.T) {
	store := newMemStore()
	identity := newFakeIdentity()
	svc := services.NewUserService(store, identity, nil, logger.Nop())
	ctx := context.Background()

	identity.failClaims(errors.New("auth down"))
	first, err := svc.EnsureUser(ctx, "first", "")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())
	assert.Empty(t, identity.claims)

	_, err = svc.Promote(ctx, "first")
	assert.Error(t, err)
	assert.Empty(t, identity.claims)

	identity.failClaims(nil)
	promoted, err := svc.Promote(ctx, "first")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.Equal(t, models.RoleAdmin, identity.claims["first"])
}

func TestListUsers_KeepsRecordsMissingFromIdentity(t *testing.T) {
	store := newMemStore()
	identity := newFakeIdentity()
	svc := services.NewUserService(store, identity, nil, logger.Nop())
	ctx := context.Background()

	_, err := svc.EnsureUser(ctx, "u1", "one@example.com")
	require.NoError(t, err)
	_, err = svc.EnsureUser(ctx, "u2", "two@example.com")
	require.NoError(t, err)

	identity.users = []models.IdentityUser{{UID: "u1", Email: "one@example.com", DisplayName: "One"}}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byUID := map[string]models.User{}
	for _, u := range users {
		byUID[u.UID] = u
	}
	assert.Equal(t, "One", byUID["u1"].DisplayName)
	assert.Equal(t, models.RoleAdmin, byUID["u1"].Role)
	assert.Equal(t, "two@example.com", byUID["u2"].Email)
	assert.Equal(t, models.RoleUser, byUID["u2"].Role)
}

func TestListUsers_MergesIdentityRecords(t *testing.T) {
	store := newMemStore()
	identity := newFakeIdentity()
	svc := services.NewUserService(store, identity, nil, logger.Nop())
	ctx := context.Background()

	_, err := svc.EnsureUser(ctx, "u1", "old@example.com")
	require.NoError(t, err)

	identity.users = []models.IdentityUser{
		{UID: "u1", Email: "new@example.com", DisplayName: "Ada", CreatedAt: time.Now()},
		{UID: "u9", Email: "nodb@example.com"},
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "new@example.com", users[0].Email)
	assert.Equal(t, "Ada", users[0].DisplayName)
	assert.Equal(t, models.RoleAdmin, users[0].Role)

	assert.Equal(t, "u9", users[1].UID)
	assert.Equal(t, models.RoleUser, users[1].Role)
	assert.Equal(t, 0, users[1].Credits)
}

func TestListUsers_FallsBackToRecords(t *testing.T) {
	store := newMemStore()
	identity := newFakeIdentity()
	identity.listErr = errors.New("auth down")
	svc := services.NewUserService(store, identity, nil, logger.Nop())
	ctx := context.Background()

	_, err := svc.EnsureUser(ctx, "u1", "a@example.com")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)

	noIdentity := services.NewUserService(store, nil, nil, logger.Nop())
	users, err = noIdentity.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
