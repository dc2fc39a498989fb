package service

import (
	"context"
	"errors"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/edudesk/school-backend/internal/repository"
	"github.com/edudesk/school-backend/internal/response"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// StudentService handles student account business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	bcryptCost  int
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, bcryptCost int) *StudentService {
	return &StudentService{studentRepo: studentRepo, bcryptCost: bcryptCost}
}

// GetByID retrieves a live student by ID.
func (s *StudentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

// GetByEmail retrieves a live student by email, for login.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	return s.studentRepo.GetByEmail(ctx, email)
}

// List retrieves live students with pagination.
func (s *StudentService) List(ctx context.Context, page, perPage int) ([]model.Student, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	students, total, err := s.studentRepo.ListPaginated(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if students == nil {
		students = []model.Student{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return students, pagination, nil
}

// Create registers a new student account with a hashed password. The role
// is always STUDENT.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest, createdBy string) (*model.Student, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MiddleName:   req.MiddleName,
		Email:        req.Email,
		Role:         model.RoleStudent,
		PasswordHash: string(hashed),
		CreatedBy:    createdBy,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Update modifies a student's profile. Updates the password if provided.
func (s *StudentService) Update(ctx context.Context, id string, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.MiddleName = req.MiddleName
	student.Email = req.Email

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		if err := s.studentRepo.UpdatePassword(ctx, student.ID, string(hashed)); err != nil {
			return nil, err
		}
	}

	return student, nil
}

// Delete soft-deletes a student account, recording who deleted it.
func (s *StudentService) Delete(ctx context.Context, id, deletedBy string) error {
	err := s.studentRepo.SoftDelete(ctx, id, deletedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStudentNotFound
	}
	return err
}
