package domain

import "time"

// Permission is a named action scoped to an object type. The name is unique
// within its type. A permission belongs to at most one permission set.
type Permission struct {
	ID              int64
	Name            string
	ObjectTypeID    int64
	PermissionSetID *int64
	CreatedAt       time.Time
	LastUpdatedAt   time.Time
}

// PermissionSet is a named, reusable bundle of permissions. The set owns an
// object type of the same name; its permissions resolve within that type.
type PermissionSet struct {
	ID             int64
	Name           string
	AdditionalInfo string
	Permissions    []string
	CreatedAt      time.Time
	LastUpdatedAt  time.Time
}

// PermissionSetRequest holds parameters for creating or updating a
// permission set. On update, Permissions is the exact target membership:
// names not yet in the set are moved in (detaching them from their previous
// set) or created, and current permissions absent from the list are deleted.
type PermissionSetRequest struct {
	Name           string
	Permissions    []string
	AdditionalInfo *string
}

// Validate checks that the request is well-formed.
func (r *PermissionSetRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("permission set name is required")
	}
	return nil
}
