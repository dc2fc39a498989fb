package repository

import (
	"context"
	"errors"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GrantRepository handles permission-grant data access.
type GrantRepository struct {
	pool *pgxpool.Pool
}

// NewGrantRepository creates a new GrantRepository.
func NewGrantRepository(pool *pgxpool.Pool) *GrantRepository {
	return &GrantRepository{pool: pool}
}

// GetByRole retrieves the grant record for a role, including its ordered
// permission set. Returns (nil, nil) when the role has no grant record —
// callers must treat that as an empty permission set, never as implicit
// approval.
func (r *GrantRepository) GetByRole(ctx context.Context, role model.Role) (*model.PermissionGrant, error) {
	g := &model.PermissionGrant{Role: role}
	var createdBy *string
	err := r.pool.QueryRow(ctx,
		`SELECT created_at, created_by FROM permission_grants WHERE role = $1`, string(role),
	).Scan(&g.CreatedAt, &createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		g.CreatedBy = *createdBy
	}

	permissions, err := r.permissionsForRole(ctx, role)
	if err != nil {
		return nil, err
	}
	g.Permissions = permissions

	return g, nil
}

// permissionsForRole loads a role's permission codes in grant order
// (most recently granted first).
func (r *GrantRepository) permissionsForRole(ctx context.Context, role model.Role) ([]model.Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT permission FROM permission_grant_entries
		 WHERE role = $1 ORDER BY position`, string(role),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []model.Permission
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		permissions = append(permissions, model.Permission(code))
	}
	return permissions, rows.Err()
}

// Save upserts a grant record and rewrites its permission entries in a
// single transaction so concurrent readers never observe a half-written set.
func (r *GrantRepository) Save(ctx context.Context, g *model.PermissionGrant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var createdBy *string
	if g.CreatedBy != "" {
		createdBy = &g.CreatedBy
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO permission_grants (role, created_by)
		 VALUES ($1, $2)
		 ON CONFLICT (role) DO NOTHING`,
		string(g.Role), createdBy,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM permission_grant_entries WHERE role = $1`, string(g.Role),
	); err != nil {
		return err
	}

	if len(g.Permissions) > 0 {
		if _, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"permission_grant_entries"},
			[]string{"role", "permission", "position"},
			pgx.CopyFromSlice(len(g.Permissions), func(i int) ([]interface{}, error) {
				return []interface{}{string(g.Role), string(g.Permissions[i]), i}, nil
			}),
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// List retrieves every grant record with its permission set.
func (r *GrantRepository) List(ctx context.Context) ([]model.PermissionGrant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role, created_at, created_by FROM permission_grants ORDER BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []model.PermissionGrant
	for rows.Next() {
		var g model.PermissionGrant
		var role string
		var createdBy *string
		if err := rows.Scan(&role, &g.CreatedAt, &createdBy); err != nil {
			return nil, err
		}
		g.Role = model.Role(role)
		if createdBy != nil {
			g.CreatedBy = *createdBy
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The number of roles is fixed and small; a query per role is fine here.
	for i := range grants {
		permissions, err := r.permissionsForRole(ctx, grants[i].Role)
		if err != nil {
			return nil, err
		}
		grants[i].Permissions = permissions
	}

	return grants, nil
}
