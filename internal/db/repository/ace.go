package repository

import (
	"context"
	"database/sql"

	"acm/internal/domain"
)

// ACERepo stores access control entries.
type ACERepo struct {
	db *sql.DB
}

// NewACERepo creates a new ACERepo.
func NewACERepo(db *sql.DB) *ACERepo {
	return &ACERepo{db: db}
}

const aceColumns = `id, object_id, permission_id, group_id, created_at, last_updated_at`

// Grant inserts an ACE. A duplicate (object, permission, group) triple
// surfaces as a ConflictError.
func (r *ACERepo) Grant(ctx context.Context, objectPK, permissionPK, groupPK int64) (*domain.AccessControlEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO access_control_entries (object_id, permission_id, group_id) VALUES (?, ?, ?)`,
		objectPK, permissionPK, groupPK)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, mapDBError(err)
	}

	var ace domain.AccessControlEntry
	err = r.db.QueryRowContext(ctx,
		`SELECT `+aceColumns+` FROM access_control_entries WHERE id = ?`, id).
		Scan(&ace.ID, &ace.ObjectID, &ace.PermissionID, &ace.GroupID, &ace.CreatedAt, &ace.LastUpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &ace, nil
}

// Revoke deletes the ACE if present; revoking an absent grant is a no-op.
func (r *ACERepo) Revoke(ctx context.Context, objectPK, permissionPK, groupPK int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM access_control_entries WHERE object_id = ? AND permission_id = ? AND group_id = ?`,
		objectPK, permissionPK, groupPK)
	return mapDBError(err)
}

// ListForObject returns every ACE naming the object.
func (r *ACERepo) ListForObject(ctx context.Context, objectPK int64) ([]domain.AccessControlEntry, error) {
	return r.list(ctx,
		`SELECT `+aceColumns+` FROM access_control_entries WHERE object_id = ? ORDER BY id`,
		objectPK)
}

// ListForObjectPermission returns the ACEs for one (object, permission)
// pair; the decision engine checks membership against their groups.
func (r *ACERepo) ListForObjectPermission(ctx context.Context, objectPK, permissionPK int64) ([]domain.AccessControlEntry, error) {
	return r.list(ctx,
		`SELECT `+aceColumns+` FROM access_control_entries WHERE object_id = ? AND permission_id = ? ORDER BY id`,
		objectPK, permissionPK)
}

func (r *ACERepo) list(ctx context.Context, query string, args ...any) ([]domain.AccessControlEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var aces []domain.AccessControlEntry
	for rows.Next() {
		var ace domain.AccessControlEntry
		if err := rows.Scan(&ace.ID, &ace.ObjectID, &ace.PermissionID, &ace.GroupID, &ace.CreatedAt, &ace.LastUpdatedAt); err != nil {
			return nil, mapDBError(err)
		}
		aces = append(aces, ace)
	}
	return aces, rows.Err()
}
