package service

import (
	"context"
	"errors"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/edudesk/school-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidRole rejects staff creation with the STUDENT role or an
// unrecognized role string.
var ErrInvalidRole = errors.New("invalid staff role")

// StaffService handles staff account business logic.
type StaffService struct {
	staffRepo  *repository.StaffRepository
	bcryptCost int
}

// NewStaffService creates a new StaffService.
func NewStaffService(staffRepo *repository.StaffRepository, bcryptCost int) *StaffService {
	return &StaffService{staffRepo: staffRepo, bcryptCost: bcryptCost}
}

// GetByID retrieves a live staff member by ID.
func (s *StaffService) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// GetByEmail retrieves a live staff member by email, for login.
func (s *StaffService) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return s.staffRepo.GetByEmail(ctx, email)
}

// List retrieves all live staff accounts, most recently created first.
func (s *StaffService) List(ctx context.Context) ([]model.Staff, error) {
	staff, err := s.staffRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []model.Staff{}
	}
	return staff, nil
}

// Create registers a new staff account. The initial password is the
// lastname, hashed; the account holder is expected to change it on first
// login.
func (s *StaffService) Create(ctx context.Context, req *model.CreateStaffRequest, createdBy string) (*model.Staff, error) {
	if !req.Role.IsValid() || req.Role == model.RoleStudent {
		return nil, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.LastName), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	staff := &model.Staff{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MiddleName:   req.MiddleName,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: string(hashed),
		CreatedBy:    createdBy,
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// Update modifies a staff member's profile. The role is immutable once
// assigned. Updates the password if provided.
func (s *StaffService) Update(ctx context.Context, id string, req *model.UpdateStaffRequest) (*model.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}

	staff.FirstName = req.FirstName
	staff.LastName = req.LastName
	staff.MiddleName = req.MiddleName
	staff.Email = req.Email

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		if err := s.staffRepo.UpdatePassword(ctx, staff.ID, string(hashed)); err != nil {
			return nil, err
		}
	}

	return staff, nil
}

// Delete soft-deletes a staff account, recording who deleted it. The
// account disappears from every read and authorization path.
func (s *StaffService) Delete(ctx context.Context, id, deletedBy string) error {
	err := s.staffRepo.SoftDelete(ctx, id, deletedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaffNotFound
	}
	return err
}
