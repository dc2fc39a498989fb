package model

import "time"

// Section represents one offered class: a course code taught in a specific
// semester and year, with an optional assigned teacher and an ordered roster
// of enrolled students (most recent enrollment first). A student appears at
// most once in the roster.
type Section struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CourseCode string    `json:"course_code"`
	Semester   string    `json:"semester"`
	Year       int       `json:"year"`
	TeacherID  string    `json:"teacher,omitempty"`
	Students   []string  `json:"students"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasStudent reports whether studentID is currently on the roster.
func (s *Section) HasStudent(studentID string) bool {
	for _, id := range s.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// SectionFilter narrows section listings. Zero values mean "any".
type SectionFilter struct {
	TeacherID string
	Semester  string
	Year      int
}

// CreateSectionRequest is the payload for creating a class section.
type CreateSectionRequest struct {
	Title      string `json:"title" binding:"required,min=2,max=200"`
	CourseCode string `json:"course_code" binding:"required,min=2,max=20"`
	Semester   string `json:"semester" binding:"required,min=2,max=20"`
	Year       int    `json:"year" binding:"required,min=1900,max=3000"`
}

// UpdateSectionRequest is the payload for updating a class section. Empty
// fields keep their current values; setting Teacher reassigns the section
// through the teaching-load check.
type UpdateSectionRequest struct {
	Title      string `json:"title" binding:"omitempty,min=2,max=200"`
	CourseCode string `json:"course_code" binding:"omitempty,min=2,max=20"`
	Semester   string `json:"semester" binding:"omitempty,min=2,max=20"`
	Year       int    `json:"year" binding:"omitempty,min=1900,max=3000"`
	Teacher    string `json:"teacher" binding:"omitempty,uuid"`
}

// AddStudentRequest is the payload for enrolling a student into a section.
type AddStudentRequest struct {
	Student string `json:"student" binding:"required,uuid"`
}
