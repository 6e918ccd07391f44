package service

import (
	"context"

	"acm/internal/domain"
)

// PermissionSetService provides permission-set lifecycle operations.
type PermissionSetService struct {
	permissions domain.PermissionRepository
}

// NewPermissionSetService creates a new PermissionSetService.
func NewPermissionSetService(permissions domain.PermissionRepository) *PermissionSetService {
	return &PermissionSetService{permissions: permissions}
}

// Create validates and persists a new permission set with its permissions.
func (s *PermissionSetService) Create(ctx context.Context, req domain.PermissionSetRequest) (*domain.PermissionSet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.permissions.CreateSet(ctx, &req)
}

// Update reconciles the set's permission membership to exactly the
// requested list: existing permissions are moved in, unknown names are
// created, and unrequested permissions are deleted. Applying the same list
// twice yields the same membership.
func (s *PermissionSetService) Update(ctx context.Context, req domain.PermissionSetRequest) (*domain.PermissionSet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.permissions.UpdateSet(ctx, &req)
}

// Read returns the set with the given name.
func (s *PermissionSetService) Read(ctx context.Context, name string) (*domain.PermissionSet, error) {
	return s.permissions.GetSetByName(ctx, name)
}
