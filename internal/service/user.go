// Package service implements the ACM core operations over the domain
// repository ports.
package service

import (
	"context"

	"acm/internal/domain"
)

// UserService provides user subject management.
type UserService struct {
	subjects domain.SubjectRepository
}

// NewUserService creates a new UserService.
func NewUserService(subjects domain.SubjectRepository) *UserService {
	return &UserService{subjects: subjects}
}

// Create allocates a new user subject. When no id is supplied a fresh
// unique identifier is generated. A colliding id, user or group, fails
// with ConflictError.
func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.Subject, error) {
	u := &domain.Subject{
		ImmutableID: domain.NewID(),
		Type:        domain.SubjectUser,
	}
	if req.ID != nil && *req.ID != "" {
		u.ImmutableID = *req.ID
	}
	if req.AdditionalInfo != nil {
		u.AdditionalInfo = *req.AdditionalInfo
	}
	return s.subjects.CreateUser(ctx, u)
}

// Find returns the user with the given immutable id.
func (s *UserService) Find(ctx context.Context, id string) (*domain.Subject, error) {
	return s.subjects.GetUser(ctx, id)
}
