package domain

import "time"

// AccessControlEntry grants one permission on one object to one group.
// The (object, permission, group) triple is unique.
type AccessControlEntry struct {
	ID            int64
	ObjectID      int64
	PermissionID  int64
	GroupID       int64
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// GrantRequest holds parameters for granting or revoking an ACE. All fields
// are immutable ids or names, resolved by the access service.
type GrantRequest struct {
	ObjectID   string
	Permission string
	GroupID    string
}

// Validate checks that the request is well-formed.
func (r *GrantRequest) Validate() error {
	if r.ObjectID == "" {
		return ErrValidation("object id is required")
	}
	if r.Permission == "" {
		return ErrValidation("permission is required")
	}
	if r.GroupID == "" {
		return ErrValidation("group id is required")
	}
	return nil
}
