package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/edudesk/school-backend/internal/model"
)

// Capacity ceilings, scoped per (semester, year).
const (
	// MaxStudentEnrollments is the most sections a student may be enrolled
	// in during one period.
	MaxStudentEnrollments = 6

	// MaxTeachingLoad is the most sections a staff member may teach during
	// one period.
	MaxTeachingLoad = 3
)

// Common enrollment guard errors.
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrStaffNotFound   = errors.New("staff not found")
	ErrAlreadyEnrolled = errors.New("student is already registered in this section")
	ErrNotEnrolled     = errors.New("student is not registered in this section")
	ErrEnrollmentLimit = errors.New("student enrollment limit reached for this period")
	ErrTeachingLimit   = errors.New("teaching load limit reached for this period")
)

// EnrollmentService is the admission control for class rosters under the
// fixed capacity ceilings. Every section write runs inside that section's
// critical section, and every count-then-act sequence additionally holds a
// per-(subject, semester, year) lock across the count, the check, and the
// save, so two concurrent requests can never both pass the same capacity
// check. Section locks are always taken before subject locks. Counting
// results are returned directly; nothing is stashed in shared state.
type EnrollmentService struct {
	sections SectionStore
	students StudentStore
	staff    StaffStore
	locks    *keyedLock
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(sections SectionStore, students StudentStore, staff StaffStore) *EnrollmentService {
	return &EnrollmentService{
		sections: sections,
		students: students,
		staff:    staff,
		locks:    newKeyedLock(),
	}
}

func sectionKey(sectionID string) string {
	return "section:" + sectionID
}

func enrollKey(studentID, semester string, year int) string {
	return fmt.Sprintf("enroll:%s:%s:%d", studentID, semester, year)
}

func teachKey(staffID, semester string, year int) string {
	return fmt.Sprintf("teach:%s:%s:%d", staffID, semester, year)
}

// CanEnrollStudent reports whether the student has room for one more
// enrollment in the given period. Only sections matching the same semester
// and year count; excludeSectionID removes the section being joined from
// the tally so the candidate mutation is never counted against itself.
func (s *EnrollmentService) CanEnrollStudent(ctx context.Context, studentID, semester string, year int, excludeSectionID string) (bool, error) {
	sections, err := s.sections.List(ctx, model.SectionFilter{Semester: semester, Year: year})
	if err != nil {
		return false, err
	}

	enrolled := 0
	for i := range sections {
		if sections[i].ID == excludeSectionID {
			continue
		}
		if sections[i].HasStudent(studentID) {
			enrolled++
		}
	}
	return enrolled < MaxStudentEnrollments, nil
}

// CanAssignTeacher reports whether the staff member has room for one more
// section in the given period, excluding the section being assigned.
func (s *EnrollmentService) CanAssignTeacher(ctx context.Context, staffID, semester string, year int, excludeSectionID string) (bool, error) {
	sections, err := s.sections.List(ctx, model.SectionFilter{TeacherID: staffID, Semester: semester, Year: year})
	if err != nil {
		return false, err
	}

	teaching := 0
	for i := range sections {
		if sections[i].ID == excludeSectionID {
			continue
		}
		teaching++
	}
	return teaching < MaxTeachingLoad, nil
}

// AddStudent enrolls a student into a section. The duplicate check runs
// before the capacity check; on success the student is prepended to the
// roster (most recent enrollment first) and the section persisted.
func (s *EnrollmentService) AddStudent(ctx context.Context, sectionID, studentID string) (*model.Section, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	unlockSection := s.locks.Lock(sectionKey(sectionID))
	defer unlockSection()

	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}

	if section.HasStudent(studentID) {
		return nil, ErrAlreadyEnrolled
	}

	// Hold the student's period lock across count, check, and save so a
	// concurrent enrollment into another section can't also read the same
	// count and push the student past the ceiling.
	unlockStudent := s.locks.Lock(enrollKey(studentID, section.Semester, section.Year))
	defer unlockStudent()

	ok, err := s.CanEnrollStudent(ctx, studentID, section.Semester, section.Year, section.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEnrollmentLimit
	}

	section.Students = append([]string{studentID}, section.Students...)
	if err := s.sections.Save(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// RemoveStudent removes a student from a section's roster. The entry is
// located by exact identity match; a student not on the roster yields
// ErrNotEnrolled and leaves the roster untouched.
func (s *EnrollmentService) RemoveStudent(ctx context.Context, sectionID, studentID string) (*model.Section, error) {
	unlockSection := s.locks.Lock(sectionKey(sectionID))
	defer unlockSection()

	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}

	idx := -1
	for i, id := range section.Students {
		if id == studentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotEnrolled
	}

	section.Students = append(section.Students[:idx], section.Students[idx+1:]...)
	if err := s.sections.Save(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// AssignTeacher sets a staff member as the section's teacher, subject to
// the teaching-load ceiling. Re-assigning the current teacher is a no-op
// success since the count excludes the target section.
func (s *EnrollmentService) AssignTeacher(ctx context.Context, sectionID, staffID string) (*model.Section, error) {
	return s.assignTeacher(ctx, sectionID, staffID, nil)
}

// AssignTeacherWith behaves like AssignTeacher but first applies apply to
// the freshly-read section inside the critical section. Used when a section
// update changes fields and teacher in one request; the teaching-load check
// runs against the updated semester and year.
func (s *EnrollmentService) AssignTeacherWith(ctx context.Context, sectionID, staffID string, apply func(*model.Section)) (*model.Section, error) {
	return s.assignTeacher(ctx, sectionID, staffID, apply)
}

func (s *EnrollmentService) assignTeacher(ctx context.Context, sectionID, staffID string, apply func(*model.Section)) (*model.Section, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}

	unlockSection := s.locks.Lock(sectionKey(sectionID))
	defer unlockSection()

	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}

	prevSemester, prevYear := section.Semester, section.Year
	if apply != nil {
		apply(section)
	}

	unlockStaff := s.locks.Lock(teachKey(staffID, section.Semester, section.Year))
	defer unlockStaff()

	ok, err := s.CanAssignTeacher(ctx, staffID, section.Semester, section.Year, section.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTeachingLimit
	}

	// A combined update may also move the section to a new period, which
	// carries the roster along; those students' ceilings are re-checked
	// against the target period too.
	if section.Semester != prevSemester || section.Year != prevYear {
		release, err := s.lockRosterForPeriod(ctx, section)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	section.TeacherID = staffID
	if err := s.sections.Save(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// lockRosterForPeriod takes each rostered student's period lock and verifies
// they all have room in the section's current (semester, year). Locks are
// acquired in sorted student order so two concurrent period moves touching
// the same students cannot deadlock. The returned release must be held until
// the save completes; on error everything acquired so far is already
// released.
func (s *EnrollmentService) lockRosterForPeriod(ctx context.Context, section *model.Section) (func(), error) {
	ids := append([]string(nil), section.Students...)
	sort.Strings(ids)

	var unlocks []func()
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, id := range ids {
		unlocks = append(unlocks, s.locks.Lock(enrollKey(id, section.Semester, section.Year)))

		ok, err := s.CanEnrollStudent(ctx, id, section.Semester, section.Year, section.ID)
		if err != nil {
			release()
			return nil, err
		}
		if !ok {
			release()
			return nil, ErrEnrollmentLimit
		}
	}
	return release, nil
}

// UpdateSection applies fn to the freshly-read section inside its critical
// section and persists the result. All section field updates flow through
// here so they never race a roster rewrite. A change of semester or year
// carries the assigned teacher and the whole roster into the target period,
// so both capacity ceilings are re-checked there before the save.
func (s *EnrollmentService) UpdateSection(ctx context.Context, sectionID string, fn func(*model.Section) error) (*model.Section, error) {
	unlockSection := s.locks.Lock(sectionKey(sectionID))
	defer unlockSection()

	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}

	prevSemester, prevYear := section.Semester, section.Year
	if err := fn(section); err != nil {
		return nil, err
	}

	if section.Semester != prevSemester || section.Year != prevYear {
		if section.TeacherID != "" {
			unlockStaff := s.locks.Lock(teachKey(section.TeacherID, section.Semester, section.Year))
			defer unlockStaff()

			ok, err := s.CanAssignTeacher(ctx, section.TeacherID, section.Semester, section.Year, section.ID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrTeachingLimit
			}
		}

		release, err := s.lockRosterForPeriod(ctx, section)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if err := s.sections.Save(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}
