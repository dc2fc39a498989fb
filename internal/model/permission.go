package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionCreateStudent allows registering new student accounts.
	PermissionCreateStudent Permission = "CREATE_STUDENT"

	// PermissionUpdateStudent allows editing existing student accounts.
	PermissionUpdateStudent Permission = "UPDATE_STUDENT"

	// PermissionDeleteStudent allows soft-deleting student accounts.
	PermissionDeleteStudent Permission = "DELETE_STUDENT"

	// PermissionGetAllStudents allows listing student accounts.
	PermissionGetAllStudents Permission = "GET_ALL_STUDENTS"

	// PermissionGetStudent allows viewing a single student account.
	PermissionGetStudent Permission = "GET_STUDENT"

	// PermissionCreateStaff allows registering new staff accounts.
	PermissionCreateStaff Permission = "CREATE_STAFF"

	// PermissionUpdateStaff allows editing existing staff accounts.
	PermissionUpdateStaff Permission = "UPDATE_STAFF"

	// PermissionDeleteStaff allows soft-deleting staff accounts.
	PermissionDeleteStaff Permission = "DELETE_STAFF"

	// PermissionGetAllStaff allows listing staff accounts.
	PermissionGetAllStaff Permission = "GET_ALL_STAFF"

	// PermissionGetStaff allows viewing a single staff account.
	PermissionGetStaff Permission = "GET_STAFF"

	// PermissionCreatePermission allows granting a permission to a role.
	PermissionCreatePermission Permission = "CREATE_PERMISSION"

	// PermissionGetAllPermissions allows listing every role's grant set.
	PermissionGetAllPermissions Permission = "GET_ALL_PERMISSIONS"

	// PermissionGetPermission allows viewing a single role's grant set.
	PermissionGetPermission Permission = "GET_PERMISSION"

	// PermissionDeletePermission allows revoking a permission from a role.
	PermissionDeletePermission Permission = "DELETE_PERMISSION"

	// PermissionCreateClasses allows creating class sections.
	PermissionCreateClasses Permission = "CREATE_CLASSES"

	// PermissionUpdateClasses allows editing class sections, including
	// teacher assignment.
	PermissionUpdateClasses Permission = "UPDATE_CLASSES"

	// PermissionGetAllClasses allows listing class sections.
	PermissionGetAllClasses Permission = "GET_ALL_CLASSES"

	// PermissionGetMyClasses allows a teacher to list their own sections.
	PermissionGetMyClasses Permission = "GET_MY_CLASSES"

	// PermissionAddStudentToClass allows enrolling a student into a section.
	PermissionAddStudentToClass Permission = "ADD_STUDENT_TO_CLASS"

	// PermissionRemoveStudentFromClass allows removing a student from a section.
	PermissionRemoveStudentFromClass Permission = "REMOVE_STUDENT_FROM_CLASS"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionCreateStudent,
	PermissionUpdateStudent,
	PermissionDeleteStudent,
	PermissionGetAllStudents,
	PermissionGetStudent,
	PermissionCreateStaff,
	PermissionUpdateStaff,
	PermissionDeleteStaff,
	PermissionGetAllStaff,
	PermissionGetStaff,
	PermissionCreatePermission,
	PermissionGetAllPermissions,
	PermissionGetPermission,
	PermissionDeletePermission,
	PermissionCreateClasses,
	PermissionUpdateClasses,
	PermissionGetAllClasses,
	PermissionGetMyClasses,
	PermissionAddStudentToClass,
	PermissionRemoveStudentFromClass,
}

// IsValid reports whether p is one of the recognized permission codes.
func (p Permission) IsValid() bool {
	for _, perm := range AllPermissions {
		if p == perm {
			return true
		}
	}
	return false
}
