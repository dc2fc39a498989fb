package model

// Role represents the fixed category assigned to an account, used as the
// key for permission lookups.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleTeacher    Role = "TEACHER"
	RolePrincipal  Role = "PRINCIPAL"
	RoleAdmin      Role = "ADMIN"
	RoleFinance    Role = "FINANCE"
	RoleManagement Role = "MANAGEMENT"
	RoleGeneral    Role = "GENERAL"
	RoleContractor Role = "CONTRACTOR"
)

// AllRoles is a slice of every recognized role.
var AllRoles = []Role{
	RoleStudent,
	RoleTeacher,
	RolePrincipal,
	RoleAdmin,
	RoleFinance,
	RoleManagement,
	RoleGeneral,
	RoleContractor,
}

// IsValid reports whether r is one of the recognized roles.
func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
