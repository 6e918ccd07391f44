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

type aceFixture struct {
	aces     *ACERepo
	object   *domain.Object
	perm     *domain.Permission
	group    *domain.Group
	subjects *SubjectRepo
}

func setupACEFixture(t *testing.T) *aceFixture {
	t.Helper()
	ctx := context.Background()
	writeDB, _ := internaldb.OpenTestSQLite(t)

	permRepo := NewPermissionRepo(writeDB)
	objRepo := NewObjectRepo(writeDB)
	subjRepo := NewSubjectRepo(writeDB)

	_, err := permRepo.CreateSet(ctx, &domain.PermissionSetRequest{
		Name:        "app_space",
		Permissions: []string{"read_appspace"},
	})
	require.NoError(t, err)

	object, err := objRepo.Create(ctx, &domain.Object{ImmutableID: "obj-1", TypeName: "app_space"})
	require.NoError(t, err)

	perm, err := permRepo.GetPermission(ctx, object.ObjectTypeID, "read_appspace")
	require.NoError(t, err)

	group, err := subjRepo.CreateGroup(ctx, &domain.Subject{ImmutableID: "devs"}, []string{"alice"})
	require.NoError(t, err)

	return &aceFixture{
		aces:     NewACERepo(writeDB),
		object:   object,
		perm:     perm,
		group:    group,
		subjects: subjRepo,
	}
}

func TestACERepo_Grant(t *testing.T) {
	f := setupACEFixture(t)
	ctx := context.Background()

	ace, err := f.aces.Grant(ctx, f.object.ID, f.perm.ID, f.group.ID)
	require.NoError(t, err)
	assert.NotZero(t, ace.ID)
	assert.Equal(t, f.object.ID, ace.ObjectID)
	assert.Equal(t, f.perm.ID, ace.PermissionID)
	assert.Equal(t, f.group.ID, ace.GroupID)
	assert.False(t, ace.CreatedAt.IsZero())
}

func TestACERepo_Grant_Duplicate(t *testing.T) {
	f := setupACEFixture(t)
	ctx := context.Background()

	_, err := f.aces.Grant(ctx, f.object.ID, f.perm.ID, f.group.ID)
	require.NoError(t, err)

	_, err = f.aces.Grant(ctx, f.object.ID, f.perm.ID, f.group.ID)
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestACERepo_Revoke_Idempotent(t *testing.T) {
	f := setupACEFixture(t)
	ctx := context.Background()

	_, err := f.aces.Grant(ctx, f.object.ID, f.perm.ID, f.group.ID)
	require.NoError(t, err)

	require.NoError(t, f.aces.Revoke(ctx, f.object.ID, f.perm.ID, f.group.ID))

	aces, err := f.aces.ListForObject(ctx, f.object.ID)
	require.NoError(t, err)
	assert.Empty(t, aces)

	// Revoking again is a no-op.
	require.NoError(t, f.aces.Revoke(ctx, f.object.ID, f.perm.ID, f.group.ID))
}

func TestACERepo_ListForObjectPermission(t *testing.T) {
	f := setupACEFixture(t)
	ctx := context.Background()

	other, err := f.subjects.CreateGroup(ctx, &domain.Subject{ImmutableID: "ops"}, nil)
	require.NoError(t, err)

	_, err = f.aces.Grant(ctx, f.object.ID, f.perm.ID, f.group.ID)
	require.NoError(t, err)
	_, err = f.aces.Grant(ctx, f.object.ID, f.perm.ID, other.ID)
	require.NoError(t, err)

	aces, err := f.aces.ListForObjectPermission(ctx, f.object.ID, f.perm.ID)
	require.NoError(t, err)
	require.Len(t, aces, 2)
	assert.Equal(t, f.group.ID, aces[0].GroupID)
	assert.Equal(t, other.ID, aces[1].GroupID)
}
