package repository

import (
	"context"
	"database/sql"

	"acm/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SubjectRepo stores users, groups, and group membership.
type SubjectRepo struct {
	db *sql.DB
}

// NewSubjectRepo creates a new SubjectRepo.
func NewSubjectRepo(db *sql.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

const subjectColumns = `id, immutable_id, type, additional_info, object_id, created_at, last_updated_at`

func scanSubject(row *sql.Row) (*domain.Subject, error) {
	var s domain.Subject
	var info sql.NullString
	var objectID sql.NullInt64
	err := row.Scan(&s.ID, &s.ImmutableID, &s.Type, &info, &objectID, &s.CreatedAt, &s.LastUpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	s.AdditionalInfo = nullString(info)
	s.ObjectID = nullInt(objectID)
	return &s, nil
}

func getSubject(ctx context.Context, q querier, immutableID string) (*domain.Subject, error) {
	return scanSubject(q.QueryRowContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE immutable_id = ?`, immutableID))
}

// CreateUser inserts a user subject. A duplicate immutable id, user or
// group, surfaces as a ConflictError.
func (r *SubjectRepo) CreateUser(ctx context.Context, s *domain.Subject) (*domain.Subject, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subjects (immutable_id, type, additional_info) VALUES (?, ?, ?)`,
		s.ImmutableID, domain.SubjectUser, toNull(s.AdditionalInfo))
	if err != nil {
		return nil, mapDBError(err)
	}
	return getSubject(ctx, r.db, s.ImmutableID)
}

// GetSubject returns the subject with the given immutable id, user or group.
func (r *SubjectRepo) GetSubject(ctx context.Context, immutableID string) (*domain.Subject, error) {
	return getSubject(ctx, r.db, immutableID)
}

// GetUser returns the user subject with the given immutable id.
func (r *SubjectRepo) GetUser(ctx context.Context, immutableID string) (*domain.Subject, error) {
	return scanSubject(r.db.QueryRowContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE immutable_id = ? AND type = ?`,
		immutableID, domain.SubjectUser))
}

// GetGroup returns the group subject with the given immutable id together
// with the immutable ids of its members.
func (r *SubjectRepo) GetGroup(ctx context.Context, immutableID string) (*domain.Group, error) {
	return r.getGroup(ctx, r.db, immutableID)
}

func (r *SubjectRepo) getGroup(ctx context.Context, q querier, immutableID string) (*domain.Group, error) {
	s, err := scanSubject(q.QueryRowContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE immutable_id = ? AND type = ?`,
		immutableID, domain.SubjectGroup))
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT u.immutable_id
		   FROM members m JOIN subjects u ON u.id = m.user_id
		  WHERE m.group_id = ? ORDER BY m.id`, s.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	g := &domain.Group{Subject: *s}
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, mapDBError(err)
		}
		g.Members = append(g.Members, member)
	}
	return g, rows.Err()
}

// CreateGroup inserts the backing object, the group subject, and the listed
// members in one transaction. Member ids that do not resolve to an existing
// subject are created as users; empty entries are skipped.
func (r *SubjectRepo) CreateGroup(ctx context.Context, g *domain.Subject, members []string) (*domain.Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback()

	typeID, err := ensureObjectType(ctx, tx, domain.SubjectGroup)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO objects (immutable_id, object_type_id) VALUES (?, ?)`,
		g.ImmutableID, typeID)
	if err != nil {
		return nil, mapDBError(err)
	}
	objectID, err := res.LastInsertId()
	if err != nil {
		return nil, mapDBError(err)
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO subjects (immutable_id, type, additional_info, object_id) VALUES (?, ?, ?, ?)`,
		g.ImmutableID, domain.SubjectGroup, toNull(g.AdditionalInfo), objectID)
	if err != nil {
		return nil, mapDBError(err)
	}
	groupID, err := res.LastInsertId()
	if err != nil {
		return nil, mapDBError(err)
	}

	for _, member := range members {
		if member == "" {
			continue
		}
		userID, err := resolveOrCreateUser(ctx, tx, member)
		if err != nil {
			return nil, err
		}
		if err := addMemberRow(ctx, tx, groupID, userID); err != nil {
			return nil, err
		}
	}

	group, err := r.getGroup(ctx, tx, g.ImmutableID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}
	return group, nil
}

// AddMember enrolls the user in the group, creating the user if it does not
// exist yet. Re-adding an existing member is a no-op.
func (r *SubjectRepo) AddMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback()

	group, err := r.getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	userPK, err := resolveOrCreateUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := addMemberRow(ctx, tx, group.ID, userPK); err != nil {
		return nil, err
	}

	updated, err := r.getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}
	return updated, nil
}

// RemoveMember revokes the membership if present; revoking an absent
// membership is a no-op.
func (r *SubjectRepo) RemoveMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	group, err := r.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM members
		  WHERE group_id = ?
		    AND user_id = (SELECT id FROM subjects WHERE immutable_id = ?)`,
		group.ID, userID)
	if err != nil {
		return nil, mapDBError(err)
	}

	return r.GetGroup(ctx, groupID)
}

// DeleteGroup removes the group's members, every ACE naming it, the group
// subject, and its backing object, all in one transaction.
func (r *SubjectRepo) DeleteGroup(ctx context.Context, immutableID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	defer tx.Rollback()

	group, err := r.getGroup(ctx, tx, immutableID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE group_id = ?`, group.ID); err != nil {
		return mapDBError(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM access_control_entries WHERE group_id = ?`, group.ID); err != nil {
		return mapDBError(err)
	}
	if group.ObjectID != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM access_control_entries WHERE object_id = ?`, *group.ObjectID); err != nil {
			return mapDBError(err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, group.ID); err != nil {
		return mapDBError(err)
	}
	if group.ObjectID != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM objects WHERE id = ?`, *group.ObjectID); err != nil {
			return mapDBError(err)
		}
	}

	return mapDBError(tx.Commit())
}

// IsMember reports whether the subject with the given immutable id is a
// direct member of the group row.
func (r *SubjectRepo) IsMember(ctx context.Context, groupPK int64, userImmutableID string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM members m JOIN subjects u ON u.id = m.user_id
		     WHERE m.group_id = ? AND u.immutable_id = ?)`,
		groupPK, userImmutableID).Scan(&exists)
	if err != nil {
		return false, mapDBError(err)
	}
	return exists == 1, nil
}

// resolveOrCreateUser returns the primary key of the user subject with the
// given immutable id, inserting a fresh user when none exists. Members are
// always users: an id that already names a group is a conflict, never an
// implicit nested membership.
func resolveOrCreateUser(ctx context.Context, q querier, immutableID string) (int64, error) {
	var (
		id    int64
		sType string
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, type FROM subjects WHERE immutable_id = ?`, immutableID).Scan(&id, &sType)
	if err == nil {
		if sType != domain.SubjectUser {
			return 0, domain.ErrConflict("subject '%s' is a %s and cannot be a group member", immutableID, sType)
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, mapDBError(err)
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO subjects (immutable_id, type) VALUES (?, ?)`,
		immutableID, domain.SubjectUser)
	if err != nil {
		return 0, mapDBError(err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, mapDBError(err)
	}
	return id, nil
}

func addMemberRow(ctx context.Context, q querier, groupPK, userPK int64) error {
	_, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO members (group_id, user_id) VALUES (?, ?)`,
		groupPK, userPK)
	return mapDBError(err)
}

func toNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
