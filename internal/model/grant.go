package model

import "time"

// PermissionGrant associates a role with the ordered set of permissions it
// holds. There is exactly one grant record per role; the most recently
// granted permission comes first. A role with an empty set is a valid record
// and is distinct from a role with no record at all.
type PermissionGrant struct {
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	CreatedBy   string       `json:"created_by,omitempty"`
}

// Holds reports whether the grant set contains the given permission.
func (g *PermissionGrant) Holds(p Permission) bool {
	if g == nil {
		return false
	}
	for _, perm := range g.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// GrantPermissionRequest is the payload for granting a permission to a role.
type GrantPermissionRequest struct {
	Role       string `json:"role" binding:"required"`
	Permission string `json:"permission" binding:"required"`
}

// DefaultGrants returns the grant sets installed by the seed command. The
// principal keeps the full set; teachers get the class-facing subset.
func DefaultGrants() []PermissionGrant {
	return []PermissionGrant{
		{
			Role:        RolePrincipal,
			Permissions: append([]Permission(nil), AllPermissions...),
		},
		{
			Role: RoleAdmin,
			Permissions: []Permission{
				PermissionCreateStudent,
				PermissionUpdateStudent,
				PermissionGetAllStudents,
				PermissionGetStudent,
				PermissionGetAllStaff,
				PermissionGetStaff,
				PermissionCreateClasses,
				PermissionUpdateClasses,
				PermissionGetAllClasses,
				PermissionAddStudentToClass,
				PermissionRemoveStudentFromClass,
			},
		},
		{
			Role: RoleTeacher,
			Permissions: []Permission{
				PermissionGetMyClasses,
				PermissionGetAllClasses,
				PermissionGetStudent,
				PermissionAddStudentToClass,
				PermissionRemoveStudentFromClass,
			},
		},
	}
}
