package repository

import (
	"context"
	"database/sql"

	"acm/internal/domain"
)

// PermissionRepo stores permission sets and the permissions they bundle.
type PermissionRepo struct {
	db *sql.DB
}

// NewPermissionRepo creates a new PermissionRepo.
func NewPermissionRepo(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

// CreateSet creates the set and one permission row per listed name in one
// transaction. The set's object type is created alongside when absent.
func (r *PermissionRepo) CreateSet(ctx context.Context, req *domain.PermissionSetRequest) (*domain.PermissionSet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback()

	typeID, err := ensureObjectType(ctx, tx, req.Name)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO permission_sets (name, additional_info) VALUES (?, ?)`,
		req.Name, nullablePtr(req.AdditionalInfo))
	if err != nil {
		return nil, mapDBError(err)
	}
	setID, err := res.LastInsertId()
	if err != nil {
		return nil, mapDBError(err)
	}

	for _, name := range req.Permissions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO permissions (name, object_type_id, permission_set_id) VALUES (?, ?, ?)`,
			name, typeID, setID)
		if err != nil {
			return nil, mapDBError(err)
		}
	}

	set, err := getSet(ctx, tx, req.Name)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}
	return set, nil
}

// UpdateSet reconciles the set's permission membership to exactly match the
// requested list, in one transaction. Requested names found in another set
// are moved in; names found nowhere are created; current permissions absent
// from the request are deleted together with the ACEs that reference them.
func (r *PermissionRepo) UpdateSet(ctx context.Context, req *domain.PermissionSetRequest) (*domain.PermissionSet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback()

	set, err := getSet(ctx, tx, req.Name)
	if err != nil {
		return nil, err
	}

	typeID, err := ensureObjectType(ctx, tx, req.Name)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(req.Permissions))
	for _, name := range req.Permissions {
		requested[name] = true
		if err := attachPermission(ctx, tx, set.ID, typeID, name); err != nil {
			return nil, err
		}
	}

	// Drop permissions no longer requested, and the grants that name them.
	rows, err := tx.QueryContext(ctx,
		`SELECT id, name FROM permissions WHERE permission_set_id = ?`, set.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	type perm struct {
		id   int64
		name string
	}
	var existing []perm
	for rows.Next() {
		var p perm
		if err := rows.Scan(&p.id, &p.name); err != nil {
			rows.Close()
			return nil, mapDBError(err)
		}
		existing = append(existing, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}

	for _, p := range existing {
		if requested[p.name] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM access_control_entries WHERE permission_id = ?`, p.id); err != nil {
			return nil, mapDBError(err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, p.id); err != nil {
			return nil, mapDBError(err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE permission_sets SET additional_info = ?, last_updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullablePtr(req.AdditionalInfo), set.ID)
	if err != nil {
		return nil, mapDBError(err)
	}

	updated, err := getSet(ctx, tx, req.Name)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}
	return updated, nil
}

// GetSetByName returns the set with its permission names.
func (r *PermissionRepo) GetSetByName(ctx context.Context, name string) (*domain.PermissionSet, error) {
	return getSet(ctx, r.db, name)
}

// GetPermission returns the permission with the given name scoped to the
// given object type.
func (r *PermissionRepo) GetPermission(ctx context.Context, objectTypeID int64, name string) (*domain.Permission, error) {
	var p domain.Permission
	var setID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, object_type_id, permission_set_id, created_at, last_updated_at
		   FROM permissions WHERE object_type_id = ? AND name = ?`,
		objectTypeID, name).
		Scan(&p.ID, &p.Name, &p.ObjectTypeID, &setID, &p.CreatedAt, &p.LastUpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	p.PermissionSetID = nullInt(setID)
	return &p, nil
}

// attachPermission makes the named permission a member of the set: reusing
// the row already scoped to the set's type, moving a same-named row out of
// another set, or inserting a fresh row.
func attachPermission(ctx context.Context, tx *sql.Tx, setID, typeID int64, name string) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM permissions WHERE object_type_id = ? AND name = ?`, typeID, name).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE permissions SET permission_set_id = ?, last_updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			setID, id)
		return mapDBError(err)
	case err != sql.ErrNoRows:
		return mapDBError(err)
	}

	// Same name under another type: detach it from its previous set and
	// re-scope it here rather than duplicating the permission.
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM permissions WHERE name = ? ORDER BY id LIMIT 1`, name).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE permissions SET permission_set_id = ?, object_type_id = ?, last_updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			setID, typeID, id)
		return mapDBError(err)
	case err != sql.ErrNoRows:
		return mapDBError(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO permissions (name, object_type_id, permission_set_id) VALUES (?, ?, ?)`,
		name, typeID, setID)
	return mapDBError(err)
}

func getSet(ctx context.Context, q querier, name string) (*domain.PermissionSet, error) {
	var set domain.PermissionSet
	var info sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, name, additional_info, created_at, last_updated_at
		   FROM permission_sets WHERE name = ?`, name).
		Scan(&set.ID, &set.Name, &info, &set.CreatedAt, &set.LastUpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	set.AdditionalInfo = nullString(info)

	rows, err := q.QueryContext(ctx,
		`SELECT name FROM permissions WHERE permission_set_id = ? ORDER BY id`, set.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, mapDBError(err)
		}
		set.Permissions = append(set.Permissions, p)
	}
	return &set, rows.Err()
}

func nullablePtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
