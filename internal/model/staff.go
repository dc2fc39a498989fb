package model

import "time"

// Staff represents a staff account. Soft-deleted staff are treated as
// non-existent by every read and authorization path.
type Staff struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	MiddleName   string    `json:"middlename,omitempty"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedBy    string    `json:"created_by,omitempty"`
	Deleted      bool      `json:"deleted"`
	DeletedBy    string    `json:"deleted_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffLoginRequest is the payload for staff authentication.
type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// StaffLoginResponse is returned after successful staff login.
type StaffLoginResponse struct {
	Token string `json:"token"`
	Staff Staff  `json:"staff"`
}

// CreateStaffRequest is the payload for creating a new staff account.
// The initial password is derived from the lastname and must be changed
// on first login.
type CreateStaffRequest struct {
	FirstName  string `json:"firstname" binding:"required,min=2,max=100"`
	LastName   string `json:"lastname" binding:"required,min=2,max=100"`
	MiddleName string `json:"middlename" binding:"omitempty,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Role       Role   `json:"role" binding:"required,oneof=TEACHER PRINCIPAL ADMIN FINANCE MANAGEMENT GENERAL CONTRACTOR"`
}

// UpdateStaffRequest is the payload for updating an existing staff account.
type UpdateStaffRequest struct {
	FirstName  string `json:"firstname" binding:"required,min=2,max=100"`
	LastName   string `json:"lastname" binding:"required,min=2,max=100"`
	MiddleName string `json:"middlename" binding:"omitempty,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"omitempty,min=6,max=128"`
}
