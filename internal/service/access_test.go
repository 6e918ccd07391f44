package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acm/internal/domain"
)

// seedAppSpace creates the app_space permission set, one object, and one
// group with a single member.
func seedAppSpace(t *testing.T, svcs *testServices) {
	t.Helper()
	ctx := context.Background()

	_, err := svcs.permissionSets.Create(ctx, domain.PermissionSetRequest{
		Name:        "app_space",
		Permissions: []string{"read_appspace", "update_appspace", "delete_appspace"},
	})
	require.NoError(t, err)

	_, err = svcs.objects.Create(ctx, domain.CreateObjectRequest{
		ID:   strPtr("www_staging"),
		Type: "app_space",
	})
	require.NoError(t, err)

	_, err = svcs.groups.Create(ctx, domain.CreateGroupRequest{
		ID:      strPtr("devs"),
		Members: []string{"alice"},
	})
	require.NoError(t, err)
}

func TestAccessService_Grant(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	ace, err := svcs.access.Grant(ctx, domain.GrantRequest{
		ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs",
	})
	require.NoError(t, err)
	assert.NotZero(t, ace.ID)

	entries, err := svcs.access.EntriesForObject(ctx, "www_staging")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAccessService_Grant_DuplicateTriple(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	req := domain.GrantRequest{ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs"}
	_, err := svcs.access.Grant(ctx, req)
	require.NoError(t, err)

	_, err = svcs.access.Grant(ctx, req)
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestAccessService_Grant_UnknownObject(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)

	_, err := svcs.access.Grant(context.Background(), domain.GrantRequest{
		ObjectID: "ghost", Permission: "read_appspace", GroupID: "devs",
	})
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAccessService_Grant_UnknownPermission(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)

	_, err := svcs.access.Grant(context.Background(), domain.GrantRequest{
		ObjectID: "www_staging", Permission: "fly", GroupID: "devs",
	})
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAccessService_Revoke(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	req := domain.GrantRequest{ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs"}
	_, err := svcs.access.Grant(ctx, req)
	require.NoError(t, err)

	require.NoError(t, svcs.access.Revoke(ctx, req))

	entries, err := svcs.access.EntriesForObject(ctx, "www_staging")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAccessService_Revoke_UnknownPermission_NoOp(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)

	err := svcs.access.Revoke(context.Background(), domain.GrantRequest{
		ObjectID: "www_staging", Permission: "fly", GroupID: "devs",
	})
	require.NoError(t, err)
}

func TestAccessService_Revoke_UnknownObject(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)

	err := svcs.access.Revoke(context.Background(), domain.GrantRequest{
		ObjectID: "ghost", Permission: "read_appspace", GroupID: "devs",
	})
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
