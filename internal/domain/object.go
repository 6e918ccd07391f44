package domain

import "time"

// ObjectType is a named category of protected resource. Type names are
// globally unique and define the namespace for permissions.
type ObjectType struct {
	ID            int64
	Name          string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// Object is an instance of a protected resource. Groups' backing objects
// share this table.
type Object struct {
	ID             int64
	ImmutableID    string
	ObjectTypeID   int64
	TypeName       string
	Name           string
	AdditionalInfo string
	CreatedAt      time.Time
	LastUpdatedAt  time.Time
}

// CreateObjectRequest holds parameters for registering a protected object.
type CreateObjectRequest struct {
	ID             *string
	Name           *string
	AdditionalInfo *string
	Type           string
}

// Validate checks that the request is well-formed.
func (r *CreateObjectRequest) Validate() error {
	if r.Type == "" {
		return ErrValidation("object type is required")
	}
	return nil
}
