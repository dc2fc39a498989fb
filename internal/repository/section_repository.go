package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SectionRepository handles class-section data access, including the
// ordered enrollment roster.
type SectionRepository struct {
	pool *pgxpool.Pool
}

// NewSectionRepository creates a new SectionRepository.
func NewSectionRepository(pool *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{pool: pool}
}

// GetByID retrieves a section and its roster by ID. Returns (nil, nil) when
// the section does not exist.
func (r *SectionRepository) GetByID(ctx context.Context, id string) (*model.Section, error) {
	s := &model.Section{ID: id}
	var teacher *string
	err := r.pool.QueryRow(ctx,
		`SELECT title, course_code, semester, year, teacher_id, created_at, updated_at
		 FROM sections WHERE id = $1`, id,
	).Scan(&s.Title, &s.CourseCode, &s.Semester, &s.Year, &teacher, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if teacher != nil {
		s.TeacherID = *teacher
	}

	roster, err := r.rosterForSection(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Students = roster

	return s, nil
}

// rosterForSection loads a section's enrolled student IDs in roster order
// (most recent enrollment first).
func (r *SectionRepository) rosterForSection(ctx context.Context, sectionID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id FROM section_students
		 WHERE section_id = $1 ORDER BY position`, sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		roster = append(roster, id)
	}
	return roster, rows.Err()
}

// List retrieves sections matching the filter, with rosters. Zero filter
// values are ignored.
func (r *SectionRepository) List(ctx context.Context, f model.SectionFilter) ([]model.Section, error) {
	query := `SELECT id, title, course_code, semester, year, teacher_id, created_at, updated_at
		 FROM sections`
	var args []interface{}
	var where []string

	if f.TeacherID != "" {
		args = append(args, f.TeacherID)
		where = append(where, "teacher_id = $"+strconv.Itoa(len(args)))
	}
	if f.Semester != "" {
		args = append(args, f.Semester)
		where = append(where, "semester = $"+strconv.Itoa(len(args)))
	}
	if f.Year != 0 {
		args = append(args, f.Year)
		where = append(where, "year = $"+strconv.Itoa(len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY year, semester, course_code"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var s model.Section
		var teacher *string
		if err := rows.Scan(&s.ID, &s.Title, &s.CourseCode, &s.Semester, &s.Year,
			&teacher, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if teacher != nil {
			s.TeacherID = *teacher
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sections {
		roster, err := r.rosterForSection(ctx, sections[i].ID)
		if err != nil {
			return nil, err
		}
		sections[i].Students = roster
	}

	return sections, nil
}

// Create inserts a new section with an empty roster.
func (r *SectionRepository) Create(ctx context.Context, s *model.Section) error {
	var teacher *string
	if s.TeacherID != "" {
		teacher = &s.TeacherID
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO sections (id, title, course_code, semester, year, teacher_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		s.ID, s.Title, s.CourseCode, s.Semester, s.Year, teacher,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Save persists a section's fields and rewrites its roster in a single
// transaction. Roster positions are re-derived from slice order so the
// stored roster always matches the in-memory one exactly.
func (r *SectionRepository) Save(ctx context.Context, s *model.Section) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var teacher *string
	if s.TeacherID != "" {
		teacher = &s.TeacherID
	}

	tag, err := tx.Exec(ctx,
		`UPDATE sections SET title = $1, course_code = $2, semester = $3, year = $4,
		 teacher_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		s.Title, s.CourseCode, s.Semester, s.Year, teacher, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM section_students WHERE section_id = $1`, s.ID,
	); err != nil {
		return err
	}

	if len(s.Students) > 0 {
		if _, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"section_students"},
			[]string{"section_id", "student_id", "position"},
			pgx.CopyFromSlice(len(s.Students), func(i int) ([]interface{}, error) {
				return []interface{}{s.ID, s.Students[i], i}, nil
			}),
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
