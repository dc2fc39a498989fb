package service

import (
	"context"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/google/uuid"
)

// SectionService handles class-section business logic. Roster and teacher
// mutations are delegated to the enrollment guard, which owns the capacity
// ceilings and the write discipline.
type SectionService struct {
	sections   SectionStore
	enrollment *EnrollmentService
}

// NewSectionService creates a new SectionService.
func NewSectionService(sections SectionStore, enrollment *EnrollmentService) *SectionService {
	return &SectionService{sections: sections, enrollment: enrollment}
}

// GetByID retrieves a section by ID.
func (s *SectionService) GetByID(ctx context.Context, id string) (*model.Section, error) {
	section, err := s.sections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}
	return section, nil
}

// List retrieves all sections.
func (s *SectionService) List(ctx context.Context) ([]model.Section, error) {
	sections, err := s.sections.List(ctx, model.SectionFilter{})
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []model.Section{}
	}
	return sections, nil
}

// ListByTeacher retrieves the sections taught by a staff member.
func (s *SectionService) ListByTeacher(ctx context.Context, teacherID string) ([]model.Section, error) {
	sections, err := s.sections.List(ctx, model.SectionFilter{TeacherID: teacherID})
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []model.Section{}
	}
	return sections, nil
}

// Create creates a new section with an empty roster and no teacher. A
// teacher is assigned later through the update path so the teaching-load
// check always applies.
func (s *SectionService) Create(ctx context.Context, req *model.CreateSectionRequest) (*model.Section, error) {
	section := &model.Section{
		ID:         uuid.New().String(),
		Title:      req.Title,
		CourseCode: req.CourseCode,
		Semester:   req.Semester,
		Year:       req.Year,
	}
	if err := s.sections.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// Update modifies a section's fields. Empty request fields keep their
// current values. A teacher change goes through the enrollment guard and
// is checked against the section's updated semester and year; a semester
// or year change with a retained teacher is likewise re-checked against
// that teacher's load and the roster's room in the target period.
func (s *SectionService) Update(ctx context.Context, id string, req *model.UpdateSectionRequest) (*model.Section, error) {
	apply := func(section *model.Section) {
		if req.Title != "" {
			section.Title = req.Title
		}
		if req.CourseCode != "" {
			section.CourseCode = req.CourseCode
		}
		if req.Semester != "" {
			section.Semester = req.Semester
		}
		if req.Year != 0 {
			section.Year = req.Year
		}
	}

	if req.Teacher != "" {
		return s.enrollment.AssignTeacherWith(ctx, id, req.Teacher, apply)
	}

	return s.enrollment.UpdateSection(ctx, id, func(section *model.Section) error {
		apply(section)
		return nil
	})
}
