package service

import (
	"context"

	"acm/internal/domain"
)

// ObjectService provides protected-object and object-type registration.
type ObjectService struct {
	objects domain.ObjectRepository
}

// NewObjectService creates a new ObjectService.
func NewObjectService(objects domain.ObjectRepository) *ObjectService {
	return &ObjectService{objects: objects}
}

// CreateType registers a new object type.
func (s *ObjectService) CreateType(ctx context.Context, name string) (*domain.ObjectType, error) {
	if name == "" {
		return nil, domain.ErrValidation("object type name is required")
	}
	return s.objects.CreateType(ctx, name)
}

// Create registers a protected object, generating an immutable id when none
// is supplied and resolving or creating its type.
func (s *ObjectService) Create(ctx context.Context, req domain.CreateObjectRequest) (*domain.Object, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	o := &domain.Object{
		ImmutableID: domain.NewID(),
		TypeName:    req.Type,
	}
	if req.ID != nil && *req.ID != "" {
		o.ImmutableID = *req.ID
	}
	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.AdditionalInfo != nil {
		o.AdditionalInfo = *req.AdditionalInfo
	}
	return s.objects.Create(ctx, o)
}

// Find returns the object with the given immutable id.
func (s *ObjectService) Find(ctx context.Context, id string) (*domain.Object, error) {
	return s.objects.GetByImmutableID(ctx, id)
}

// Delete removes the object and cascades its ACEs.
func (s *ObjectService) Delete(ctx context.Context, id string) error {
	return s.objects.Delete(ctx, id)
}
