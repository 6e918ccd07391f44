package service

import (
	"context"
	"errors"
	"log/slog"

	"acm/internal/domain"
)

// DecisionService answers "can subject S exercise permission P on object O".
// It is stateless: every evaluation reads the store directly, so the answer
// always reflects some committed state.
type DecisionService struct {
	objects     domain.ObjectRepository
	permissions domain.PermissionRepository
	subjects    domain.SubjectRepository
	aces        domain.ACERepository
	logger      *slog.Logger
}

// NewDecisionService creates a new DecisionService.
func NewDecisionService(
	objects domain.ObjectRepository,
	permissions domain.PermissionRepository,
	subjects domain.SubjectRepository,
	aces domain.ACERepository,
	logger *slog.Logger,
) *DecisionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionService{
		objects:     objects,
		permissions: permissions,
		subjects:    subjects,
		aces:        aces,
		logger:      logger.With("component", "decision"),
	}
}

// Evaluate resolves the object, the permission within the object's type,
// the ACEs for that pair, and finally direct group membership. An unknown
// object or a permission not defined for the type evaluates to Deny rather
// than an error. Resolution is flat: one membership hop, no nested groups,
// no object hierarchy.
func (s *DecisionService) Evaluate(ctx context.Context, req domain.CheckAccessRequest) (domain.Decision, error) {
	if err := req.Validate(); err != nil {
		return domain.DecisionDeny, err
	}

	object, err := s.objects.GetByImmutableID(ctx, req.ObjectID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Debug("deny: object unknown", "object", req.ObjectID)
			return domain.DecisionDeny, nil
		}
		return domain.DecisionDeny, err
	}

	permission, err := s.permissions.GetPermission(ctx, object.ObjectTypeID, req.Permission)
	if err != nil {
		if isNotFound(err) {
			s.logger.Debug("deny: permission not defined for type",
				"permission", req.Permission, "type", object.TypeName)
			return domain.DecisionDeny, nil
		}
		return domain.DecisionDeny, err
	}

	aces, err := s.aces.ListForObjectPermission(ctx, object.ID, permission.ID)
	if err != nil {
		return domain.DecisionDeny, err
	}

	for _, ace := range aces {
		ok, err := s.subjects.IsMember(ctx, ace.GroupID, req.SubjectID)
		if err != nil {
			return domain.DecisionDeny, err
		}
		if ok {
			return domain.DecisionGrant, nil
		}
	}

	s.logger.Debug("deny: no matching membership",
		"subject", req.SubjectID, "permission", req.Permission, "object", req.ObjectID)
	return domain.DecisionDeny, nil
}

func isNotFound(err error) bool {
	var notFound *domain.NotFoundError
	return errors.As(err, &notFound)
}
