package service

import (
	"context"
	"errors"

	"github.com/edudesk/school-backend/internal/model"
)

// Common permission registry errors.
var (
	ErrUnknownRole       = errors.New("role is not recognized")
	ErrUnknownPermission = errors.New("permission code is not recognized")
	ErrAlreadyGranted    = errors.New("permission already granted to this role")
	ErrGrantNotFound     = errors.New("role does not hold this permission")
)

// PermissionService is the authoritative answer to "may role R perform
// action P". Grant sets are always re-read from the store; nothing here
// caches permissions across requests.
type PermissionService struct {
	grants        GrantStore
	locks         *keyedLock
	bootstrapRole model.Role
}

// NewPermissionService creates a new PermissionService. bootstrapRole is the
// one role allowed to create grants before any grant record exists.
func NewPermissionService(grants GrantStore, bootstrapRole model.Role) *PermissionService {
	return &PermissionService{
		grants:        grants,
		locks:         newKeyedLock(),
		bootstrapRole: bootstrapRole,
	}
}

func grantKey(role model.Role) string {
	return "grant:" + string(role)
}

// Grant adds a permission to a role's set, creating the grant record on
// first use. The new permission is prepended (most recent grant first).
// Granting a permission the role already holds fails with ErrAlreadyGranted
// and leaves the set untouched.
func (s *PermissionService) Grant(ctx context.Context, role model.Role, perm model.Permission, grantedBy string) (*model.PermissionGrant, error) {
	if !role.IsValid() {
		return nil, ErrUnknownRole
	}
	if !perm.IsValid() {
		return nil, ErrUnknownPermission
	}

	// Serialize read-modify-write per role so concurrent grants never lose
	// an entry.
	unlock := s.locks.Lock(grantKey(role))
	defer unlock()

	grant, err := s.grants.GetByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		grant = &model.PermissionGrant{Role: role, CreatedBy: grantedBy}
	}
	if grant.Holds(perm) {
		return nil, ErrAlreadyGranted
	}

	grant.Permissions = append([]model.Permission{perm}, grant.Permissions...)
	if err := s.grants.Save(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// Revoke removes a permission from a role's set. A missing grant record and
// a grant that lacks the permission both fail with ErrGrantNotFound. The
// record itself is kept even when the set empties.
func (s *PermissionService) Revoke(ctx context.Context, role model.Role, perm model.Permission) (*model.PermissionGrant, error) {
	if !role.IsValid() {
		return nil, ErrUnknownRole
	}
	if !perm.IsValid() {
		return nil, ErrUnknownPermission
	}

	unlock := s.locks.Lock(grantKey(role))
	defer unlock()

	grant, err := s.grants.GetByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, ErrGrantNotFound
	}

	idx := -1
	for i, p := range grant.Permissions {
		if p == perm {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrGrantNotFound
	}

	grant.Permissions = append(grant.Permissions[:idx], grant.Permissions[idx+1:]...)
	if err := s.grants.Save(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// List returns the permission set for a role. A role with no grant record
// yields an empty set, not an error.
func (s *PermissionService) List(ctx context.Context, role model.Role) ([]model.Permission, error) {
	if !role.IsValid() {
		return nil, ErrUnknownRole
	}
	grant, err := s.grants.GetByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return []model.Permission{}, nil
	}
	return grant.Permissions, nil
}

// ListAll returns every role's grant record.
func (s *PermissionService) ListAll(ctx context.Context) ([]model.PermissionGrant, error) {
	return s.grants.List(ctx)
}

// Check reports whether the role holds the permission. This is a strict
// membership test: a missing grant record or an empty set is false, never
// true by default.
func (s *PermissionService) Check(ctx context.Context, role model.Role, perm model.Permission) (bool, error) {
	grant, err := s.grants.GetByRole(ctx, role)
	if err != nil {
		return false, err
	}
	return grant.Holds(perm), nil
}

// Authorize reports whether an actor with the given role may perform the
// action. The bootstrap role bypasses the check for grant creation only —
// without that, a fresh install with zero grant records could never install
// its first grant. Every other action is a pure grant-table lookup.
func (s *PermissionService) Authorize(ctx context.Context, role model.Role, perm model.Permission) (bool, error) {
	if perm == model.PermissionCreatePermission && role == s.bootstrapRole {
		return true, nil
	}
	return s.Check(ctx, role, perm)
}

// AllPermissionCodes returns every recognized permission code.
func (s *PermissionService) AllPermissionCodes() []model.Permission {
	return append([]model.Permission(nil), model.AllPermissions...)
}
