package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/edudesk/school-backend/internal/model"
)

func newTestSectionService(studentIDs, staffIDs []string) (*SectionService, *memSectionStore) {
	enrollment, store := newTestEnrollmentService(studentIDs, staffIDs)
	return NewSectionService(store, enrollment), store
}

func TestUpdateKeepsPartialFields(t *testing.T) {
	svc, store := newTestSectionService(nil, nil)
	seedSection(store, "sec1", "FALL", 2026, "")
	ctx := context.Background()

	section, err := svc.Update(ctx, "sec1", &model.UpdateSectionRequest{Title: "Algebra II"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if section.Title != "Algebra II" {
		t.Errorf("title %s, want Algebra II", section.Title)
	}
	if section.Semester != "FALL" || section.Year != 2026 {
		t.Errorf("period changed by a title-only update: %s %d", section.Semester, section.Year)
	}
}

func TestUpdateSemesterOnlyRespectsTeachingLoad(t *testing.T) {
	svc, store := newTestSectionService(nil, []string{"t1"})
	for i := 0; i < MaxTeachingLoad; i++ {
		seedSection(store, fmt.Sprintf("fall%d", i), "FALL", 2026, "t1")
	}
	seedSection(store, "target", "SPRING", 2026, "t1")
	ctx := context.Background()

	// The request says nothing about the teacher, but the section already
	// has one; moving the period must not slip past the load ceiling.
	_, err := svc.Update(ctx, "target", &model.UpdateSectionRequest{Semester: "FALL"})
	if err != ErrTeachingLimit {
		t.Fatalf("got %v, want ErrTeachingLimit", err)
	}

	stored, _ := store.GetByID(ctx, "target")
	if stored.Semester != "SPRING" {
		t.Errorf("section moved despite failed check: semester %s", stored.Semester)
	}
}

func TestUpdateTeacherAndSemesterTogether(t *testing.T) {
	svc, store := newTestSectionService(nil, []string{"t1"})
	for i := 0; i < MaxTeachingLoad; i++ {
		seedSection(store, fmt.Sprintf("fall%d", i), "FALL", 2026, "t1")
	}
	seedSection(store, "target", "SPRING", 2026, "")
	ctx := context.Background()

	_, err := svc.Update(ctx, "target", &model.UpdateSectionRequest{Teacher: "t1", Semester: "FALL"})
	if err != ErrTeachingLimit {
		t.Fatalf("got %v, want ErrTeachingLimit", err)
	}
}
