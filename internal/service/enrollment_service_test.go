package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/edudesk/school-backend/internal/model"
)

// memSectionStore is an in-memory SectionStore. Like the pgx implementation,
// reads hand out copies and Save replaces the stored row wholesale.
type memSectionStore struct {
	mu       sync.Mutex
	sections map[string]model.Section
}

func newMemSectionStore() *memSectionStore {
	return &memSectionStore{sections: make(map[string]model.Section)}
}

func copySection(s model.Section) model.Section {
	s.Students = append([]string(nil), s.Students...)
	return s
}

func (m *memSectionStore) GetByID(_ context.Context, id string) (*model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sections[id]
	if !ok {
		return nil, nil
	}
	s = copySection(s)
	return &s, nil
}

func (m *memSectionStore) List(_ context.Context, f model.SectionFilter) ([]model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Section
	for _, s := range m.sections {
		if f.TeacherID != "" && s.TeacherID != f.TeacherID {
			continue
		}
		if f.Semester != "" && s.Semester != f.Semester {
			continue
		}
		if f.Year != 0 && s.Year != f.Year {
			continue
		}
		out = append(out, copySection(s))
	}
	return out, nil
}

func (m *memSectionStore) Create(_ context.Context, s *model.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections[s.ID] = copySection(*s)
	return nil
}

func (m *memSectionStore) Save(_ context.Context, s *model.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections[s.ID] = copySection(*s)
	return nil
}

// memAccountStore resolves student and staff IDs from a fixed set.
type memAccountStore struct {
	ids map[string]bool
}

func (m *memAccountStore) GetByID(_ context.Context, id string) (*model.Student, error) {
	if !m.ids[id] {
		return nil, nil
	}
	return &model.Student{ID: id}, nil
}

type memStaffStore struct {
	ids map[string]bool
}

func (m *memStaffStore) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if !m.ids[id] {
		return nil, nil
	}
	return &model.Staff{ID: id}, nil
}

func newTestEnrollmentService(studentIDs, staffIDs []string) (*EnrollmentService, *memSectionStore) {
	students := &memAccountStore{ids: make(map[string]bool)}
	for _, id := range studentIDs {
		students.ids[id] = true
	}
	staff := &memStaffStore{ids: make(map[string]bool)}
	for _, id := range staffIDs {
		staff.ids[id] = true
	}
	store := newMemSectionStore()
	return NewEnrollmentService(store, students, staff), store
}

func seedSection(store *memSectionStore, id, semester string, year int, teacherID string, students ...string) {
	store.sections[id] = model.Section{
		ID:        id,
		Title:     "Section " + id,
		Semester:  semester,
		Year:      year,
		TeacherID: teacherID,
		Students:  append([]string(nil), students...),
	}
}

func TestAddStudentPrependsToRoster(t *testing.T) {
	svc, store := newTestEnrollmentService([]string{"s1", "s2"}, nil)
	seedSection(store, "sec1", "FALL", 2026, "", "s1")
	ctx := context.Background()

	section, err := svc.AddStudent(ctx, "sec1", "s2")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	want := []string{"s2", "s1"}
	if len(section.Students) != len(want) {
		t.Fatalf("roster %v, want %v", section.Students, want)
	}
	for i := range want {
		if section.Students[i] != want[i] {
			t.Errorf("roster[%d] = %s, want %s", i, section.Students[i], want[i])
		}
	}
}

func TestAddStudentRejectsDuplicate(t *testing.T) {
	svc, store := newTestEnrollmentService([]string{"s1"}, nil)
	seedSection(store, "sec1", "FALL", 2026, "", "s1")

	if _, err := svc.AddStudent(context.Background(), "sec1", "s1"); err != ErrAlreadyEnrolled {
		t.Fatalf("got %v, want ErrAlreadyEnrolled", err)
	}
}

func TestAddStudentUnknownAccounts(t *testing.T) {
	svc, store := newTestEnrollmentService([]string{"s1"}, nil)
	seedSection(store, "sec1", "FALL", 2026, "")
	ctx := context.Background()

	if _, err := svc.AddStudent(ctx, "sec1", "ghost"); err != ErrStudentNotFound {
		t.Errorf("unknown student: got %v, want ErrStudentNotFound", err)
	}
	if _, err := svc.AddStudent(ctx, "nope", "s1"); err != ErrSectionNotFound {
		t.Errorf("unknown section: got %v, want ErrSectionNotFound", err)
	}
}

func TestAddStudentEnrollmentCeiling(t *testing.T) {
	svc, store := newTestEnrollmentService([]string{"s1"}, nil)
	for i := 0; i < MaxStudentEnrollments; i++ {
		seedSection(store, fmt.Sprintf("sec%d", i), "FALL", 2026, "", "s1")
	}
	seedSection(store, "overflow", "FALL", 2026, "")
	// Same student, different period: must not count against the ceiling.
	seedSection(store, "spring", "SPRING", 2027, "")
	ctx := context.Background()

	if _, err := svc.AddStudent(ctx, "overflow", "s1"); err != ErrEnrollmentLimit {
		t.Fatalf("got %v, want ErrEnrollmentLimit", err)
	}

	if _, err := svc.AddStudent(ctx, "spring", "s1"); err != nil {
		t.Fatalf("different period blocked: %v", err)
	}
}

func TestAddStudentDuplicateCheckedBeforeCapacity(t *testing.T) {
	svc, store := newTestEnrollmentService([]string{"s1"}, nil)
	for i := 0; i < MaxStudentEnrollments; i++ {
		seedSection(store, fmt.Sprintf("sec%d", i), "FALL", 2026, "", "s1")
	}

	// The student is at the ceiling AND already in sec0; the duplicate error
	// wins over the capacity error.
	if _, err := svc.AddStudent(context.Background(), "sec0", "s1"); err != ErrAlreadyEnrolled {
		t.Fatalf("got %v, want ErrAlreadyEnrolled", err)
	}
}

func TestRemoveStudentExactMatch(t *testing.T) {
	svc, store := newTestEnrollmentService(nil, nil)
	seedSection(store, "sec1", "FALL", 2026, "", "s3", "s2", "s1")
	ctx := context.Background()

	section, err := svc.RemoveStudent(ctx, "sec1", "s2")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []string{"s3", "s1"}
	if len(section.Students) != len(want) {
		t.Fatalf("roster %v, want %v", section.Students, want)
	}
	for i := range want {
		if section.Students[i] != want[i] {
			t.Errorf("roster[%d] = %s, want %s", i, section.Students[i], want[i])
		}
	}

	// Removing an absent student fails and changes nothing.
	if _, err := svc.RemoveStudent(ctx, "sec1", "s2"); err != ErrNotEnrolled {
		t.Errorf("got %v, want ErrNotEnrolled", err)
	}
	stored, _ := store.GetByID(ctx, "sec1")
	if len(stored.Students) != 2 {
		t.Errorf("failed removal mutated roster: %v", stored.Students)
	}
}

// Removal works even when the student account is gone; the roster entry is
// matched by identity alone.
func TestRemoveStudentWithoutAccount(t *testing.T) {
	svc, store := newTestEnrollmentService(nil, nil)
	seedSection(store, "sec1", "FALL", 2026, "", "deleted-student")

	section, err := svc.RemoveStudent(context.Background(), "sec1", "deleted-student")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(section.Students) != 0 {
		t.Errorf("roster not emptied: %v", section.Students)
	}
}

func TestAssignTeacherLoadCeiling(t *testing.T) {
	svc, store := newTestEnrollmentService(nil, []string{"t1"})
	for i := 0; i < MaxTeachingLoad; i++ {
		seedSection(store, fmt.Sprintf("sec%d", i), "FALL", 2026, "t1")
	}
	seedSection(store, "overflow", "FALL", 2026, "")
	seedSection(store, "spring", "SPRING", 2027, "")
	ctx := context.Background()

	if _, err := svc.AssignTeacher(ctx, "overflow", "t1"); err != ErrTeachingLimit {
		t.Fatalf("got %v, want ErrTeachingLimit", err)
	}

	// A different period has its own tally.
	if _, err := svc.AssignTeacher(ctx, "spring", "t1"); err != nil {
		t.Fatalf("different period blocked: %v", err)
	}
}

func TestAssignTeacherIdempotentAtCeiling(t *testing.T) {
	svc, store := newTestEnrollmentService(nil, []string{"t1"})
	for i := 0; i < MaxTeachingLoad; i++ {
		seedSection(store, fmt.Sprintf("sec%d", i), "FALL", 2026, "t1")
	}

	// Re-assigning the current teacher excludes the target section from the
	// count, so a full load does not block it.
	section, err := svc.AssignTeacher(context.Background(), "sec0", "t1")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if section.TeacherID != "t1" {
		t.Errorf("teacher = %s, want t1", section.TeacherID)
	}
}

func TestAssignTeacherUnknownStaff(t *testing.T) {
	svc, store := newTestEnrollmentService(nil, nil)
	seedSection(store, "sec1", "FALL", 2026, "")

	if _, err := svc.AssignTeacher(context.Background(), "sec1", "ghost"); err != ErrStaffNotFound {
		t.Fatalf("got %v, want ErrStaffNotFound", err)
	}
}

func TestAssignTeacherWithPeriodChange(t *testing.T) {
	svc, store := newTestEnrollmentService(nil, []string{"t1"})
	for i := 0; i < MaxTeachingLoad; i++ {
		seedSection(store, fmt.Sprintf("fall%d", i), "FALL", 2026, "t1")
	}
	seedSection(store, "target", "SPRING", 2026, "")
	ctx := context.Background()

	// The update moves the section into the teacher's already-full period;
	// the load check must run against the updated semester.
	_, err := svc.AssignTeacherWith(ctx, "target", "t1", func(s *model.Section) {
		s.Semester = "FALL"
	})
	if err != ErrTeachingLimit {
		t.Fatalf("got %v, want ErrTeachingLimit", err)
	}
}

func TestUpdateSectionPeriodMoveChecksTeacherLoad(t *testing.T) {
	svc, store := newTestEnrollmentService(nil, []string{"t1"})
	for i := 0; i < MaxTeachingLoad; i++ {
		seedSection(store, fmt.Sprintf("fall%d", i), "FALL", 2026, "t1")
	}
	seedSection(store, "target", "SPRING", 2026, "t1")
	ctx := context.Background()

	// The update keeps the teacher and only changes the period; the load
	// check must still run, or the teacher ends up over the ceiling.
	_, err := svc.UpdateSection(ctx, "target", func(s *model.Section) error {
		s.Semester = "FALL"
		return nil
	})
	if err != ErrTeachingLimit {
		t.Fatalf("got %v, want ErrTeachingLimit", err)
	}

	stored, _ := store.GetByID(ctx, "target")
	if stored.Semester != "SPRING" {
		t.Errorf("section moved despite failed check: semester %s", stored.Semester)
	}
}

func TestUpdateSectionPeriodMoveChecksRoster(t *testing.T) {
	svc, store := newTestEnrollmentService([]string{"s1"}, nil)
	for i := 0; i < MaxStudentEnrollments; i++ {
		seedSection(store, fmt.Sprintf("fall%d", i), "FALL", 2026, "", "s1")
	}
	seedSection(store, "target", "SPRING", 2026, "", "s1")
	ctx := context.Background()

	// The roster travels with the section, so each rostered student needs
	// room in the target period too.
	_, err := svc.UpdateSection(ctx, "target", func(s *model.Section) error {
		s.Semester = "FALL"
		return nil
	})
	if err != ErrEnrollmentLimit {
		t.Fatalf("got %v, want ErrEnrollmentLimit", err)
	}
}

func TestUpdateSectionPeriodMoveWithRoom(t *testing.T) {
	svc, store := newTestEnrollmentService([]string{"s1"}, []string{"t1"})
	seedSection(store, "fall0", "FALL", 2026, "t1")
	seedSection(store, "target", "SPRING", 2026, "t1", "s1")
	ctx := context.Background()

	section, err := svc.UpdateSection(ctx, "target", func(s *model.Section) error {
		s.Semester = "FALL"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if section.Semester != "FALL" || section.TeacherID != "t1" {
		t.Errorf("got semester %s teacher %s, want FALL t1", section.Semester, section.TeacherID)
	}
}

func TestUpdateSectionMissing(t *testing.T) {
	svc, _ := newTestEnrollmentService(nil, nil)

	_, err := svc.UpdateSection(context.Background(), "nope", func(s *model.Section) error {
		s.Title = "x"
		return nil
	})
	if err != ErrSectionNotFound {
		t.Fatalf("got %v, want ErrSectionNotFound", err)
	}
}

func TestConcurrentAddsToOneSection(t *testing.T) {
	const n = 20
	var studentIDs []string
	for i := 0; i < n; i++ {
		studentIDs = append(studentIDs, fmt.Sprintf("s%d", i))
	}
	svc, store := newTestEnrollmentService(studentIDs, nil)
	seedSection(store, "sec1", "FALL", 2026, "")
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, id := range studentIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := svc.AddStudent(ctx, "sec1", id); err != nil {
				errs <- fmt.Errorf("add %s: %w", id, err)
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	section, _ := store.GetByID(ctx, "sec1")
	if len(section.Students) != n {
		t.Fatalf("roster has %d entries after %d concurrent adds", len(section.Students), n)
	}
}

func TestConcurrentEnrollmentsRespectCeiling(t *testing.T) {
	// One student with one slot left, racing into several open sections.
	// Exactly one add may win.
	const racers = 5
	svc, store := newTestEnrollmentService([]string{"s1"}, nil)
	for i := 0; i < MaxStudentEnrollments-1; i++ {
		seedSection(store, fmt.Sprintf("full%d", i), "FALL", 2026, "", "s1")
	}
	for i := 0; i < racers; i++ {
		seedSection(store, fmt.Sprintf("open%d", i), "FALL", 2026, "")
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddStudent(ctx, fmt.Sprintf("open%d", i), "s1")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		switch err {
		case nil:
			wins++
		case ErrEnrollmentLimit:
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d concurrent enrollments won with one slot left", wins)
	}
}
