package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/edudesk/school-backend/internal/model"
)

// memGrantStore is an in-memory GrantStore. Reads and writes copy the grant
// so the service never shares state with the store, mirroring how the pgx
// implementation behaves.
type memGrantStore struct {
	mu     sync.Mutex
	grants map[model.Role]model.PermissionGrant
}

func newMemGrantStore() *memGrantStore {
	return &memGrantStore{grants: make(map[model.Role]model.PermissionGrant)}
}

func copyGrant(g model.PermissionGrant) model.PermissionGrant {
	g.Permissions = append([]model.Permission(nil), g.Permissions...)
	return g
}

func (m *memGrantStore) GetByRole(_ context.Context, role model.Role) (*model.PermissionGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grants[role]
	if !ok {
		return nil, nil
	}
	g = copyGrant(g)
	return &g, nil
}

func (m *memGrantStore) Save(_ context.Context, g *model.PermissionGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[g.Role] = copyGrant(*g)
	return nil
}

func (m *memGrantStore) List(_ context.Context) ([]model.PermissionGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PermissionGrant
	for _, g := range m.grants {
		out = append(out, copyGrant(g))
	}
	return out, nil
}

func newTestPermissionService() (*PermissionService, *memGrantStore) {
	store := newMemGrantStore()
	return NewPermissionService(store, model.RolePrincipal), store
}

func TestGrantCreatesRecordAndPrepends(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	if _, err := svc.Grant(ctx, model.RoleAdmin, model.PermissionCreateStudent, "boss"); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	grant, err := svc.Grant(ctx, model.RoleAdmin, model.PermissionGetStudent, "boss")
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}

	want := []model.Permission{model.PermissionGetStudent, model.PermissionCreateStudent}
	if len(grant.Permissions) != len(want) {
		t.Fatalf("got %d permissions, want %d", len(grant.Permissions), len(want))
	}
	for i := range want {
		if grant.Permissions[i] != want[i] {
			t.Errorf("permissions[%d] = %s, want %s", i, grant.Permissions[i], want[i])
		}
	}
}

func TestGrantDuplicateRejected(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	if _, err := svc.Grant(ctx, model.RoleAdmin, model.PermissionCreateStudent, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := svc.Grant(ctx, model.RoleAdmin, model.PermissionCreateStudent, ""); err != ErrAlreadyGranted {
		t.Fatalf("duplicate grant: got %v, want ErrAlreadyGranted", err)
	}

	perms, err := svc.List(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(perms) != 1 {
		t.Errorf("set changed by failed grant: %v", perms)
	}
}

func TestGrantValidatesInput(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	if _, err := svc.Grant(ctx, model.Role("JANITOR"), model.PermissionCreateStudent, ""); err != ErrUnknownRole {
		t.Errorf("bad role: got %v, want ErrUnknownRole", err)
	}
	if _, err := svc.Grant(ctx, model.RoleAdmin, model.Permission("FLY"), ""); err != ErrUnknownPermission {
		t.Errorf("bad permission: got %v, want ErrUnknownPermission", err)
	}
}

func TestRevokeValidatesInput(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	if _, err := svc.Revoke(ctx, model.Role("JANITOR"), model.PermissionCreateStudent); err != ErrUnknownRole {
		t.Errorf("bad role: got %v, want ErrUnknownRole", err)
	}
	if _, err := svc.Revoke(ctx, model.RoleAdmin, model.Permission("FLY")); err != ErrUnknownPermission {
		t.Errorf("bad permission: got %v, want ErrUnknownPermission", err)
	}
}

func TestRevokeRemovesExactPermission(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	for _, p := range []model.Permission{
		model.PermissionCreateStudent,
		model.PermissionUpdateStudent,
		model.PermissionDeleteStudent,
	} {
		if _, err := svc.Grant(ctx, model.RoleAdmin, p, ""); err != nil {
			t.Fatalf("grant %s: %v", p, err)
		}
	}

	// Set is now [DELETE, UPDATE, CREATE]. Remove the middle element.
	grant, err := svc.Revoke(ctx, model.RoleAdmin, model.PermissionUpdateStudent)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}

	want := []model.Permission{model.PermissionDeleteStudent, model.PermissionCreateStudent}
	if len(grant.Permissions) != len(want) {
		t.Fatalf("got %v, want %v", grant.Permissions, want)
	}
	for i := range want {
		if grant.Permissions[i] != want[i] {
			t.Errorf("permissions[%d] = %s, want %s", i, grant.Permissions[i], want[i])
		}
	}
}

func TestRevokeMissingPermission(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	// No grant record at all.
	if _, err := svc.Revoke(ctx, model.RoleAdmin, model.PermissionCreateStudent); err != ErrGrantNotFound {
		t.Errorf("no record: got %v, want ErrGrantNotFound", err)
	}

	// Record exists but lacks the permission.
	if _, err := svc.Grant(ctx, model.RoleAdmin, model.PermissionGetStudent, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := svc.Revoke(ctx, model.RoleAdmin, model.PermissionCreateStudent); err != ErrGrantNotFound {
		t.Errorf("missing permission: got %v, want ErrGrantNotFound", err)
	}
}

func TestRevokeKeepsEmptyRecord(t *testing.T) {
	svc, store := newTestPermissionService()
	ctx := context.Background()

	if _, err := svc.Grant(ctx, model.RoleAdmin, model.PermissionCreateStudent, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}
	grant, err := svc.Revoke(ctx, model.RoleAdmin, model.PermissionCreateStudent)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(grant.Permissions) != 0 {
		t.Fatalf("expected empty set, got %v", grant.Permissions)
	}

	// The record survives with an empty set; it is not deleted.
	stored, err := store.GetByRole(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored == nil {
		t.Fatal("grant record deleted after emptying")
	}

	allowed, err := svc.Check(ctx, model.RoleAdmin, model.PermissionCreateStudent)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if allowed {
		t.Error("revoked permission still allowed")
	}
}

func TestListWithoutRecordIsEmpty(t *testing.T) {
	svc, _ := newTestPermissionService()

	perms, err := svc.List(context.Background(), model.RoleTeacher)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if perms == nil || len(perms) != 0 {
		t.Errorf("got %v, want empty set", perms)
	}
}

func TestCheckIsStrictMembership(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	// No grant record: denied, never an implicit allow.
	allowed, err := svc.Check(ctx, model.RoleTeacher, model.PermissionGetMyClasses)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if allowed {
		t.Error("missing grant record treated as allowed")
	}

	if _, err := svc.Grant(ctx, model.RoleTeacher, model.PermissionGetMyClasses, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}

	allowed, err = svc.Check(ctx, model.RoleTeacher, model.PermissionGetMyClasses)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !allowed {
		t.Error("granted permission not allowed")
	}

	allowed, err = svc.Check(ctx, model.RoleTeacher, model.PermissionDeleteStudent)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if allowed {
		t.Error("ungranted permission allowed")
	}
}

func TestAuthorizeBootstrapBypass(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	// The bootstrap role may create grants with zero records in place.
	allowed, err := svc.Authorize(ctx, model.RolePrincipal, model.PermissionCreatePermission)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if !allowed {
		t.Error("bootstrap role denied grant creation")
	}

	// The bypass covers grant creation only.
	allowed, err = svc.Authorize(ctx, model.RolePrincipal, model.PermissionDeleteStudent)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if allowed {
		t.Error("bypass leaked beyond grant creation")
	}

	// Other roles get no bypass.
	allowed, err = svc.Authorize(ctx, model.RoleAdmin, model.PermissionCreatePermission)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if allowed {
		t.Error("non-bootstrap role bypassed the grant table")
	}
}

func TestConcurrentGrantsLoseNothing(t *testing.T) {
	svc, _ := newTestPermissionService()
	ctx := context.Background()

	perms := model.AllPermissions
	var wg sync.WaitGroup
	errs := make(chan error, len(perms))
	for _, p := range perms {
		wg.Add(1)
		go func(p model.Permission) {
			defer wg.Done()
			if _, err := svc.Grant(ctx, model.RolePrincipal, p, ""); err != nil {
				errs <- fmt.Errorf("grant %s: %w", p, err)
			}
		}(p)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	got, err := svc.List(ctx, model.RolePrincipal)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(perms) {
		t.Fatalf("got %d permissions after concurrent grants, want %d", len(got), len(perms))
	}
}
