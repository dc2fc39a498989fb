package service

import (
	"context"

	"github.com/edudesk/school-backend/internal/model"
)

// Collaborator store contracts for the registry and the enrollment guard.
// Lookups return (nil, nil) when no live record exists; soft-deleted
// accounts never produce a positive result. The pgx implementations live in
// internal/repository.

// GrantStore persists permission-grant records.
type GrantStore interface {
	GetByRole(ctx context.Context, role model.Role) (*model.PermissionGrant, error)
	Save(ctx context.Context, g *model.PermissionGrant) error
	List(ctx context.Context) ([]model.PermissionGrant, error)
}

// SectionStore persists class sections and their rosters.
type SectionStore interface {
	GetByID(ctx context.Context, id string) (*model.Section, error)
	List(ctx context.Context, f model.SectionFilter) ([]model.Section, error)
	Create(ctx context.Context, s *model.Section) error
	Save(ctx context.Context, s *model.Section) error
}

// StaffStore resolves staff accounts.
type StaffStore interface {
	GetByID(ctx context.Context, id string) (*model.Staff, error)
}

// StudentStore resolves student accounts.
type StudentStore interface {
	GetByID(ctx context.Context, id string) (*model.Student, error)
}
