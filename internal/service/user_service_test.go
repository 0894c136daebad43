package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/apperr"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

func newUserService(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()
	db := openTestDB(t)
	repo := repository.NewUserRepository(db)
	return NewUserService(repo), repo
}

func TestAdminCreateUser(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.AdminCreateUserRequest{
		Username: "mod",
		Email:    "Mod@Example.com",
		Role:     models.RoleModerator,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, created.Role)
	assert.Equal(t, "mod@example.com", created.Email)

	// the default role is plain user
	created, err = svc.Create(ctx, dto.AdminCreateUserRequest{Username: "plain", Email: "plain@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, created.Role)
}

func TestAdminCreateUserValidation(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.AdminCreateUserRequest{Username: "me", Email: "me@example.com"})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")

	_, err = svc.Create(ctx, dto.AdminCreateUserRequest{Username: "x", Email: "x@example.com", Role: "owner"})
	ve, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "role")

	_, err = svc.Create(ctx, dto.AdminCreateUserRequest{Username: "dup", Email: "dup@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.AdminCreateUserRequest{Username: "dup", Email: "else@example.com"})
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestUpdateSelfTouchesProfileOnly(t *testing.T) {
	svc, repo := newUserService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, dto.AdminCreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	row, err := repo.FindByUsername(ctx, created.Username)
	require.NoError(t, err)
	before := row.StateVersion

	bio := "hi there"
	email := "New@Example.com"
	updated, err := svc.UpdateSelf(ctx, row.ID, dto.UpdateMeRequest{Bio: &bio, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "hi there", updated.Bio)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, models.RoleUser, updated.Role)

	// profile edits bump the state version and kill outstanding codes
	row, err = repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Greater(t, row.StateVersion, before)
}

func TestUpdateSelfDuplicateEmail(t *testing.T) {
	svc, repo := newUserService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, dto.AdminCreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.AdminCreateUserRequest{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	bob, err := repo.FindByUsername(ctx, "bob")
	require.NoError(t, err)

	taken := "alice@example.com"
	_, err = svc.UpdateSelf(ctx, bob.ID, dto.UpdateMeRequest{Email: &taken})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestAdminUpdateRole(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, dto.AdminCreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	role := models.RoleModerator
	updated, err := svc.UpdateByUsername(ctx, "alice", dto.AdminUpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)

	bad := "owner"
	_, err = svc.UpdateByUsername(ctx, "alice", dto.AdminUpdateUserRequest{Role: &bad})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "role")

	_, err = svc.UpdateByUsername(ctx, "ghost", dto.AdminUpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, dto.AdminCreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByUsername(ctx, "alice"))
	assert.ErrorIs(t, svc.DeleteByUsername(ctx, "alice"), apperr.ErrNotFound)

	_, err = svc.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListUsersOrderedByUsername(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := svc.Create(ctx, dto.AdminCreateUserRequest{Username: name, Email: name + "@example.com"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Username)
	assert.Equal(t, "bob", page.Results[1].Username)
}
