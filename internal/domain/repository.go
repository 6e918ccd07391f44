package domain

import "context"

// SubjectRepository provides storage for users, groups, and membership.
// Multi-row mutations (group creation with members, group deletion with
// member and ACE cascade) run inside a single transaction.
type SubjectRepository interface {
	CreateUser(ctx context.Context, s *Subject) (*Subject, error)
	GetSubject(ctx context.Context, immutableID string) (*Subject, error)
	GetUser(ctx context.Context, immutableID string) (*Subject, error)
	GetGroup(ctx context.Context, immutableID string) (*Group, error)
	CreateGroup(ctx context.Context, g *Subject, members []string) (*Group, error)
	AddMember(ctx context.Context, groupID, userID string) (*Group, error)
	RemoveMember(ctx context.Context, groupID, userID string) (*Group, error)
	DeleteGroup(ctx context.Context, immutableID string) error
	IsMember(ctx context.Context, groupPK int64, userImmutableID string) (bool, error)
}

// ObjectRepository provides storage for objects and object types.
type ObjectRepository interface {
	CreateType(ctx context.Context, name string) (*ObjectType, error)
	GetTypeByName(ctx context.Context, name string) (*ObjectType, error)
	Create(ctx context.Context, o *Object) (*Object, error)
	GetByImmutableID(ctx context.Context, immutableID string) (*Object, error)
	Delete(ctx context.Context, immutableID string) error
}

// PermissionRepository provides storage for permissions and permission sets.
// CreateSet and UpdateSet are transactional; UpdateSet implements the
// merge-with-move reconciliation of the set's permission membership.
type PermissionRepository interface {
	CreateSet(ctx context.Context, req *PermissionSetRequest) (*PermissionSet, error)
	UpdateSet(ctx context.Context, req *PermissionSetRequest) (*PermissionSet, error)
	GetSetByName(ctx context.Context, name string) (*PermissionSet, error)
	GetPermission(ctx context.Context, objectTypeID int64, name string) (*Permission, error)
}

// ACERepository provides storage for access control entries.
type ACERepository interface {
	Grant(ctx context.Context, objectPK, permissionPK, groupPK int64) (*AccessControlEntry, error)
	Revoke(ctx context.Context, objectPK, permissionPK, groupPK int64) error
	ListForObject(ctx context.Context, objectPK int64) ([]AccessControlEntry, error)
	ListForObjectPermission(ctx context.Context, objectPK, permissionPK int64) ([]AccessControlEntry, error)
}
