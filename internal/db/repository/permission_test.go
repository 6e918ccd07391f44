package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "acm/internal/db"
	"acm/internal/domain"
)

func setupPermissionRepo(t *testing.T) (*PermissionRepo, *ObjectRepo) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewPermissionRepo(writeDB), NewObjectRepo(writeDB)
}

func strPtr(s string) *string { return &s }

func TestPermissionRepo_CreateSet(t *testing.T) {
	permRepo, objRepo := setupPermissionRepo(t)
	ctx := context.Background()

	set, err := permRepo.CreateSet(ctx, &domain.PermissionSetRequest{
		Name:           "app_space",
		Permissions:    []string{"read_appspace", "update_appspace", "delete_appspace"},
		AdditionalInfo: strPtr("app space permissions"),
	})
	require.NoError(t, err)
	assert.Equal(t, "app_space", set.Name)
	assert.Equal(t, []string{"read_appspace", "update_appspace", "delete_appspace"}, set.Permissions)
	assert.Equal(t, "app space permissions", set.AdditionalInfo)

	// The set owns an object type of the same name, and the permissions
	// resolve within it.
	typ, err := objRepo.GetTypeByName(ctx, "app_space")
	require.NoError(t, err)
	p, err := permRepo.GetPermission(ctx, typ.ID, "read_appspace")
	require.NoError(t, err)
	assert.Equal(t, "read_appspace", p.Name)
	require.NotNil(t, p.PermissionSetID)
	assert.Equal(t, set.ID, *p.PermissionSetID)
}

func TestPermissionRepo_CreateSet_DuplicateName(t *testing.T) {
	permRepo, _ := setupPermissionRepo(t)
	ctx := context.Background()

	_, err := permRepo.CreateSet(ctx, &domain.PermissionSetRequest{Name: "dup"})
	require.NoError(t, err)

	_, err = permRepo.CreateSet(ctx, &domain.PermissionSetRequest{Name: "dup"})
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestPermissionRepo_GetSetByName_NotFound(t *testing.T) {
	permRepo, _ := setupPermissionRepo(t)

	_, err := permRepo.GetSetByName(context.Background(), "nonexistent")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPermissionRepo_UpdateSet_AddAndRemove(t *testing.T) {
	permRepo, objRepo := setupPermissionRepo(t)
	ctx := context.Background()

	_, err := permRepo.CreateSet(ctx, &domain.PermissionSetRequest{
		Name:        "app_space",
		Permissions: []string{"read_appspace", "delete_appspace"},
	})
	require.NoError(t, err)

	set, err := permRepo.UpdateSet(ctx, &domain.PermissionSetRequest{
		Name:        "app_space",
		Permissions: []string{"read_appspace", "update_appspace"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"read_appspace", "update_appspace"}, set.Permissions)

	// The dropped permission is gone from the type's namespace.
	typ, err := objRepo.GetTypeByName(ctx, "app_space")
	require.NoError(t, err)
	_, err = permRepo.GetPermission(ctx, typ.ID, "delete_appspace")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPermissionRepo_UpdateSet_Idempotent(t *testing.T) {
	permRepo, _ := setupPermissionRepo(t)
	ctx := context.Background()

	req := &domain.PermissionSetRequest{
		Name:        "app_space",
		Permissions: []string{"read_appspace", "update_appspace"},
	}
	_, err := permRepo.CreateSet(ctx, req)
	require.NoError(t, err)

	first, err := permRepo.UpdateSet(ctx, req)
	require.NoError(t, err)
	second, err := permRepo.UpdateSet(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Permissions, second.Permissions)
}

func TestPermissionRepo_UpdateSet_MovesPermissionBetweenSets(t *testing.T) {
	permRepo, _ := setupPermissionRepo(t)
	ctx := context.Background()

	_, err := permRepo.CreateSet(ctx, &domain.PermissionSetRequest{
		Name:        "first",
		Permissions: []string{"shared_perm"},
	})
	require.NoError(t, err)
	_, err = permRepo.CreateSet(ctx, &domain.PermissionSetRequest{Name: "second"})
	require.NoError(t, err)

	moved, err := permRepo.UpdateSet(ctx, &domain.PermissionSetRequest{
		Name:        "second",
		Permissions: []string{"shared_perm"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"shared_perm"}, moved.Permissions)

	remaining, err := permRepo.GetSetByName(ctx, "first")
	require.NoError(t, err)
	assert.Empty(t, remaining.Permissions)
}

func TestPermissionRepo_UpdateSet_NotFound(t *testing.T) {
	permRepo, _ := setupPermissionRepo(t)

	_, err := permRepo.UpdateSet(context.Background(), &domain.PermissionSetRequest{Name: "nonexistent"})
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestPermissionRepo_GetPermission_WrongType(t *testing.T) {
	permRepo, objRepo := setupPermissionRepo(t)
	ctx := context.Background()

	_, err := permRepo.CreateSet(ctx, &domain.PermissionSetRequest{
		Name:        "app_space",
		Permissions: []string{"read_appspace"},
	})
	require.NoError(t, err)

	other, err := objRepo.CreateType(ctx, "other_type")
	require.NoError(t, err)

	_, err = permRepo.GetPermission(ctx, other.ID, "read_appspace")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
