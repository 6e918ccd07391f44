package service

import (
	"context"

	"acm/internal/domain"
)

// GroupService provides group subject management: creation with initial
// members, membership changes, and cascading deletion.
type GroupService struct {
	subjects domain.SubjectRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(subjects domain.SubjectRepository) *GroupService {
	return &GroupService{subjects: subjects}
}

// Create allocates the backing object, the group subject, and the listed
// members as one atomic unit. Member ids not yet known are created as
// users; empty entries are skipped. A duplicate id, including one held by
// an existing user, fails with ConflictError.
func (s *GroupService) Create(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error) {
	g := &domain.Subject{
		ImmutableID: domain.NewID(),
		Type:        domain.SubjectGroup,
	}
	if req.ID != nil && *req.ID != "" {
		g.ImmutableID = *req.ID
	}
	if req.AdditionalInfo != nil {
		g.AdditionalInfo = *req.AdditionalInfo
	}
	return s.subjects.CreateGroup(ctx, g, req.Members)
}

// Find returns the group with the given immutable id and its members.
func (s *GroupService) Find(ctx context.Context, id string) (*domain.Group, error) {
	return s.subjects.GetGroup(ctx, id)
}

// AddMember enrolls the user in the group, creating the user when it does
// not exist. Re-adding an existing member is a no-op.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	if userID == "" {
		return nil, domain.ErrValidation("user id is required")
	}
	return s.subjects.AddMember(ctx, groupID, userID)
}

// RemoveMember revokes the membership; revoking an absent membership is a
// no-op.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	return s.subjects.RemoveMember(ctx, groupID, userID)
}

// Delete removes the group, its members, every ACE naming it, and its
// backing object, atomically.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	return s.subjects.DeleteGroup(ctx, id)
}
