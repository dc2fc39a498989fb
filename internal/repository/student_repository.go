package repository

import (
	"context"
	"errors"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const studentColumns = `id, firstname, lastname, middlename, email, role,
	password_hash, created_by, deleted, deleted_by, created_at, updated_at`

// StudentRepository handles student account data access. Soft-deleted rows
// are excluded from every positive result.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
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

// GetByID retrieves a student by ID. Returns (nil, nil) when no live record
// exists, soft-deleted included.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	s, err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1 AND deleted = FALSE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// GetByEmail retrieves a student by their unique email address.
// Returns (nil, nil) when no live record exists.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	s, err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = $1 AND deleted = FALSE`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// ListPaginated retrieves live students with pagination, most recently
// created first.
func (r *StudentRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Student, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE deleted = FALSE`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + studentColumns + ` FROM students WHERE deleted = FALSE
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student account.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	var middle, createdBy *string
	if s.MiddleName != "" {
		middle = &s.MiddleName
	}
	if s.CreatedBy != "" {
		createdBy = &s.CreatedBy
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (id, firstname, lastname, middlename, email, role, password_hash, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		s.ID, s.FirstName, s.LastName, middle, s.Email, string(s.Role), s.PasswordHash, createdBy,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update modifies a student's profile fields.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	var middle *string
	if s.MiddleName != "" {
		middle = &s.MiddleName
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET firstname = $1, lastname = $2, middlename = $3, email = $4,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5 AND deleted = FALSE`,
		s.FirstName, s.LastName, middle, s.Email, s.ID,
	)
	return err
}

// UpdatePassword replaces a student's password hash.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET password_hash = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND deleted = FALSE`,
		passwordHash, id,
	)
	return err
}

// SoftDelete marks a student account as deleted, recording who deleted it.
func (r *StudentRepository) SoftDelete(ctx context.Context, id, deletedBy string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET deleted = TRUE, deleted_by = $1, updated_at = CURRENT_TIMESTAMP
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
