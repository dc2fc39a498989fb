package model

import "time"

// Student represents a student account. The role is always STUDENT and
// cannot be changed. Soft-deleted students are treated as non-existent by
// every read and authorization path.
type Student struct {
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

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}

// CreateStudentRequest is the payload for registering a new student account.
type CreateStudentRequest struct {
	FirstName  string `json:"firstname" binding:"required,min=2,max=100"`
	LastName   string `json:"lastname" binding:"required,min=2,max=100"`
	MiddleName string `json:"middlename" binding:"omitempty,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	FirstName  string `json:"firstname" binding:"required,min=2,max=100"`
	LastName   string `json:"lastname" binding:"required,min=2,max=100"`
	MiddleName string `json:"middlename" binding:"omitempty,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"omitempty,min=6,max=128"`
}
