package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acm/internal/domain"
)

func evaluate(t *testing.T, svcs *testServices, subject, permission, object string) domain.Decision {
	t.Helper()
	d, err := svcs.decisions.Evaluate(context.Background(), domain.CheckAccessRequest{
		SubjectID:  subject,
		Permission: permission,
		ObjectID:   object,
	})
	require.NoError(t, err)
	return d
}

func TestDecisionService_GrantThroughMembership(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	_, err := svcs.access.Grant(ctx, domain.GrantRequest{
		ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionGrant, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))
	// The grant covers only the one permission.
	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "alice", "update_appspace", "www_staging"))
	// Non-members are denied.
	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "mallory", "read_appspace", "www_staging"))
}

func TestDecisionService_UnknownObjectDenies(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)

	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "alice", "read_appspace", "ghost"))
}

func TestDecisionService_UnknownPermissionDenies(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)

	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "alice", "fly", "www_staging"))
}

func TestDecisionService_MembershipFlip(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	_, err := svcs.access.Grant(ctx, domain.GrantRequest{
		ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionGrant, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))

	_, err = svcs.groups.RemoveMember(ctx, "devs", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))

	_, err = svcs.groups.AddMember(ctx, "devs", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionGrant, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))
}

func TestDecisionService_DeleteGroupRemovesAccess(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	_, err := svcs.access.Grant(ctx, domain.GrantRequest{
		ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs",
	})
	require.NoError(t, err)

	require.NoError(t, svcs.groups.Delete(ctx, "devs"))

	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))
	entries, err := svcs.access.EntriesForObject(ctx, "www_staging")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecisionService_RevokeRemovesAccess(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	req := domain.GrantRequest{ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs"}
	_, err := svcs.access.Grant(ctx, req)
	require.NoError(t, err)
	require.NoError(t, svcs.access.Revoke(ctx, req))

	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))
}

func TestDecisionService_PermissionDroppedFromSetDenies(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	_, err := svcs.access.Grant(ctx, domain.GrantRequest{
		ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs",
	})
	require.NoError(t, err)

	// Dropping the permission from its set deletes it and its grants.
	_, err = svcs.permissionSets.Update(ctx, domain.PermissionSetRequest{
		Name:        "app_space",
		Permissions: []string{"update_appspace"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))
}

func TestDecisionService_MultipleGroups(t *testing.T) {
	svcs := setupServices(t)
	seedAppSpace(t, svcs)
	ctx := context.Background()

	_, err := svcs.groups.Create(ctx, domain.CreateGroupRequest{
		ID:      strPtr("auditors"),
		Members: []string{"oscar"},
	})
	require.NoError(t, err)

	_, err = svcs.access.Grant(ctx, domain.GrantRequest{
		ObjectID: "www_staging", Permission: "read_appspace", GroupID: "devs",
	})
	require.NoError(t, err)
	_, err = svcs.access.Grant(ctx, domain.GrantRequest{
		ObjectID: "www_staging", Permission: "read_appspace", GroupID: "auditors",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionGrant, evaluate(t, svcs, "alice", "read_appspace", "www_staging"))
	assert.Equal(t, domain.DecisionGrant, evaluate(t, svcs, "oscar", "read_appspace", "www_staging"))
	assert.Equal(t, domain.DecisionDeny, evaluate(t, svcs, "mallory", "read_appspace", "www_staging"))
}

func TestDecisionService_ValidatesRequest(t *testing.T) {
	svcs := setupServices(t)

	_, err := svcs.decisions.Evaluate(context.Background(), domain.CheckAccessRequest{})
	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}
