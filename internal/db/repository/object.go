package repository

import (
	"context"
	"database/sql"

	"acm/internal/domain"
)

// ObjectRepo stores protected objects and their types.
type ObjectRepo struct {
	db *sql.DB
}

// NewObjectRepo creates a new ObjectRepo.
func NewObjectRepo(db *sql.DB) *ObjectRepo {
	return &ObjectRepo{db: db}
}

// CreateType registers a new object type. Type names are globally unique.
func (r *ObjectRepo) CreateType(ctx context.Context, name string) (*domain.ObjectType, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO object_types (name) VALUES (?)`, name)
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetTypeByName(ctx, name)
}

// GetTypeByName returns the object type with the given name.
func (r *ObjectRepo) GetTypeByName(ctx context.Context, name string) (*domain.ObjectType, error) {
	var t domain.ObjectType
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, last_updated_at FROM object_types WHERE name = ?`,
		name).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.LastUpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &t, nil
}

// Create registers a protected object, resolving or creating its type in
// the same transaction.
func (r *ObjectRepo) Create(ctx context.Context, o *domain.Object) (*domain.Object, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback()

	typeID, err := ensureObjectType(ctx, tx, o.TypeName)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO objects (immutable_id, object_type_id, name, additional_info) VALUES (?, ?, ?, ?)`,
		o.ImmutableID, typeID, toNull(o.Name), toNull(o.AdditionalInfo))
	if err != nil {
		return nil, mapDBError(err)
	}

	created, err := getObject(ctx, tx, o.ImmutableID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}
	return created, nil
}

// GetByImmutableID returns the object with the given immutable id.
func (r *ObjectRepo) GetByImmutableID(ctx context.Context, immutableID string) (*domain.Object, error) {
	return getObject(ctx, r.db, immutableID)
}

// Delete removes the object and every ACE referencing it in one transaction.
// Objects that back a group are refused; they are removed with the group.
func (r *ObjectRepo) Delete(ctx context.Context, immutableID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	defer tx.Rollback()

	o, err := getObject(ctx, tx, immutableID)
	if err != nil {
		return err
	}

	// A group's backing object row lives and dies with the group.
	var backing int
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subjects WHERE object_id = ?)`, o.ID).Scan(&backing)
	if err != nil {
		return mapDBError(err)
	}
	if backing == 1 {
		return domain.ErrValidation("object '%s' backs a group and can only be removed by deleting the group", immutableID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM access_control_entries WHERE object_id = ?`, o.ID); err != nil {
		return mapDBError(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM objects WHERE id = ?`, o.ID); err != nil {
		return mapDBError(err)
	}

	return mapDBError(tx.Commit())
}

func getObject(ctx context.Context, q querier, immutableID string) (*domain.Object, error) {
	var o domain.Object
	var name, info sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT o.id, o.immutable_id, o.object_type_id, t.name, o.name, o.additional_info,
		        o.created_at, o.last_updated_at
		   FROM objects o JOIN object_types t ON t.id = o.object_type_id
		  WHERE o.immutable_id = ?`, immutableID).
		Scan(&o.ID, &o.ImmutableID, &o.ObjectTypeID, &o.TypeName, &name, &info,
			&o.CreatedAt, &o.LastUpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	o.Name = nullString(name)
	o.AdditionalInfo = nullString(info)
	return &o, nil
}

// ensureObjectType resolves the type by name, creating it when absent, and
// returns its primary key. Safe inside a transaction.
func ensureObjectType(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM object_types WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, mapDBError(err)
	}

	res, err := q.ExecContext(ctx, `INSERT INTO object_types (name) VALUES (?)`, name)
	if err != nil {
		return 0, mapDBError(err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, mapDBError(err)
	}
	return id, nil
}
