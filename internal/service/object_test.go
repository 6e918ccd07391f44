package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acm/internal/domain"
)

func TestObjectService_Create_GeneratesID(t *testing.T) {
	svcs := setupServices(t)

	o, err := svcs.objects.Create(context.Background(), domain.CreateObjectRequest{Type: "app_space"})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ImmutableID)
	assert.Equal(t, "app_space", o.TypeName)
}

func TestObjectService_Create_MissingType(t *testing.T) {
	svcs := setupServices(t)

	_, err := svcs.objects.Create(context.Background(), domain.CreateObjectRequest{})
	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestObjectService_CreateType_MissingName(t *testing.T) {
	svcs := setupServices(t)

	_, err := svcs.objects.CreateType(context.Background(), "")
	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestObjectService_FindAndDelete(t *testing.T) {
	svcs := setupServices(t)
	ctx := context.Background()

	o, err := svcs.objects.Create(ctx, domain.CreateObjectRequest{
		ID:   strPtr("obj-1"),
		Name: strPtr("staging"),
		Type: "app_space",
	})
	require.NoError(t, err)
	assert.Equal(t, "staging", o.Name)

	found, err := svcs.objects.Find(ctx, "obj-1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, found.ID)

	require.NoError(t, svcs.objects.Delete(ctx, "obj-1"))

	_, err = svcs.objects.Find(ctx, "obj-1")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
