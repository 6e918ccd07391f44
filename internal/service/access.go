package service

import (
	"context"
	"errors"

	"acm/internal/domain"
)

// AccessService provides grant and revoke operations on access control
// entries, resolving immutable ids and permission names to stored rows.
type AccessService struct {
	objects     domain.ObjectRepository
	permissions domain.PermissionRepository
	subjects    domain.SubjectRepository
	aces        domain.ACERepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(
	objects domain.ObjectRepository,
	permissions domain.PermissionRepository,
	subjects domain.SubjectRepository,
	aces domain.ACERepository,
) *AccessService {
	return &AccessService{objects: objects, permissions: permissions, subjects: subjects, aces: aces}
}

// Grant inserts the ACE for (object, permission, group). Any missing
// referent fails with NotFoundError; an existing triple fails with
// ConflictError.
func (s *AccessService) Grant(ctx context.Context, req domain.GrantRequest) (*domain.AccessControlEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	object, err := s.objects.GetByImmutableID(ctx, req.ObjectID)
	if err != nil {
		return nil, err
	}
	permission, err := s.permissions.GetPermission(ctx, object.ObjectTypeID, req.Permission)
	if err != nil {
		return nil, err
	}
	group, err := s.subjects.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	return s.aces.Grant(ctx, object.ID, permission.ID, group.ID)
}

// Revoke deletes the ACE if present. Revoking a grant that does not exist,
// including one whose permission is not defined for the object's type, is a
// no-op.
func (s *AccessService) Revoke(ctx context.Context, req domain.GrantRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	object, err := s.objects.GetByImmutableID(ctx, req.ObjectID)
	if err != nil {
		return err
	}
	permission, err := s.permissions.GetPermission(ctx, object.ObjectTypeID, req.Permission)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	group, err := s.subjects.GetGroup(ctx, req.GroupID)
	if err != nil {
		return err
	}

	return s.aces.Revoke(ctx, object.ID, permission.ID, group.ID)
}

// EntriesForObject returns every ACE naming the object.
func (s *AccessService) EntriesForObject(ctx context.Context, objectID string) ([]domain.AccessControlEntry, error) {
	object, err := s.objects.GetByImmutableID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	return s.aces.ListForObject(ctx, object.ID)
}
