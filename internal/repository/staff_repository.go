package repository

import (
	"context"
	"errors"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const staffColumns = `id, firstname, lastname, middlename, email, role,
	password_hash, created_by, deleted, deleted_by, created_at, updated_at`

// StaffRepository handles staff account data access. Soft-deleted rows are
// excluded from every positive result.
type StaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

func scanStaff(row pgx.Row) (*model.Staff, error) {
	s := &model.Staff{}
	var middle, createdBy, deletedBy *string
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &middle, &s.Email, &s.Role,
		&s.PasswordHash, &createdBy, &s.Deleted, &deletedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if middle != nil {
		s.MiddleName = *middle
	}
	if createdBy != nil {
		s.CreatedBy = *createdBy
	}
	if deletedBy != nil {
		s.DeletedBy = *deletedBy
	}
	return s, nil
}

// GetByID retrieves a staff member by ID. Returns (nil, nil) when no live
// record exists, soft-deleted included.
func (r *StaffRepository) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	s, err := scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1 AND deleted = FALSE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// GetByEmail retrieves a staff member by their unique email address.
// Returns (nil, nil) when no live record exists.
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	s, err := scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE email = $1 AND deleted = FALSE`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// List retrieves all live staff accounts, most recently created first.
func (r *StaffRepository) List(ctx context.Context) ([]model.Staff, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE deleted = FALSE ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []model.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, *s)
	}
	return staff, rows.Err()
}

// Create inserts a new staff account.
func (r *StaffRepository) Create(ctx context.Context, s *model.Staff) error {
	var middle, createdBy *string
	if s.MiddleName != "" {
		middle = &s.MiddleName
	}
	if s.CreatedBy != "" {
		createdBy = &s.CreatedBy
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO staff (id, firstname, lastname, middlename, email, role, password_hash, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		s.ID, s.FirstName, s.LastName, middle, s.Email, string(s.Role), s.PasswordHash, createdBy,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update modifies a staff member's profile fields.
func (r *StaffRepository) Update(ctx context.Context, s *model.Staff) error {
	var middle *string
	if s.MiddleName != "" {
		middle = &s.MiddleName
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE staff SET firstname = $1, lastname = $2, middlename = $3, email = $4,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5 AND deleted = FALSE`,
		s.FirstName, s.LastName, middle, s.Email, s.ID,
	)
	return err
}

// UpdatePassword replaces a staff member's password hash.
func (r *StaffRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE staff SET password_hash = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND deleted = FALSE`,
		passwordHash, id,
	)
	return err
}

// SoftDelete marks a staff account as deleted, recording who deleted it.
// The row is kept; every read path filters it out from then on.
func (r *StaffRepository) SoftDelete(ctx context.Context, id, deletedBy string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET deleted = TRUE, deleted_by = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND deleted = FALSE`,
		deletedBy, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
