package store

import (
	"context"
	"errors"
	"testing"

	"github.com/marioghenriques/carreira/internal/domain"
)

func TestAddCourse_RoundTripsCompetencyIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddCourse(ctx, "Curso A", "descricao", 16, "technical", []int64{3, 1, 2})
	if err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}

	courses, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses() failed: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("len = %d, want 1", len(courses))
	}

	c := courses[0]
	if c.ID != id {
		t.Errorf("ID = %d, want %d", c.ID, id)
	}
	if !c.IsActive {
		t.Error("new course should be active")
	}
	// Order is preserved as given, not sorted.
	want := []int64{3, 1, 2}
	if len(c.CompetencyIDs) != len(want) {
		t.Fatalf("CompetencyIDs = %v, want %v", c.CompetencyIDs, want)
	}
	for i := range want {
		if c.CompetencyIDs[i] != want[i] {
			t.Errorf("CompetencyIDs[%d] = %d, want %d", i, c.CompetencyIDs[i], want[i])
		}
	}
}

func TestAddCourse_NoCompetencies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddCourse(ctx, "Curso B", "", 8, "behavioral", nil); err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}

	courses, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses() failed: %v", err)
	}
	if courses[0].CompetencyIDs == nil {
		t.Error("CompetencyIDs is nil, want empty slice")
	}
	if len(courses[0].CompetencyIDs) != 0 {
		t.Errorf("CompetencyIDs = %v, want empty", courses[0].CompetencyIDs)
	}
}

func TestAddCourse_NonPositiveDuration(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddCourse(context.Background(), "Curso C", "", 0, "technical", nil)
	if err == nil {
		t.Fatal("expected error for zero duration")
	}
	if !IsCheckViolation(err) {
		t.Errorf("expected check violation, got %v", err)
	}
}

func TestListActiveCourses_ExcludesToggled(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	idA, err := s.AddCourse(ctx, "Curso A", "", 8, "technical", nil)
	if err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}
	idB, err := s.AddCourse(ctx, "Curso B", "", 8, "technical", nil)
	if err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}

	if err := s.ToggleCourseActive(ctx, idA); err != nil {
		t.Fatalf("ToggleCourseActive() failed: %v", err)
	}

	active, err := s.ListActiveCourses(ctx)
	if err != nil {
		t.Fatalf("ListActiveCourses() failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != idB {
		t.Errorf("active = %+v, want only course %d", active, idB)
	}

	all, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d courses, want 2", len(all))
	}

	// Toggling back restores visibility.
	if err := s.ToggleCourseActive(ctx, idA); err != nil {
		t.Fatalf("second ToggleCourseActive() failed: %v", err)
	}
	active, err = s.ListActiveCourses(ctx)
	if err != nil {
		t.Fatalf("ListActiveCourses() failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active = %d courses after restore, want 2", len(active))
	}
}

func TestToggleCourseActive_Absent(t *testing.T) {
	s := newTestStore(t)

	err := s.ToggleCourseActive(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCourse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddCourse(ctx, "Curso A", "", 8, "technical", nil)
	if err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}

	if err := s.DeleteCourse(ctx, id); err != nil {
		t.Fatalf("DeleteCourse() failed: %v", err)
	}

	courses, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses() failed: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("courses remain after delete: %d", len(courses))
	}
}

func TestDeleteCourse_WithIntentions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.CreateUser(ctx, "Ana Lima", "ana@example.com", domain.LevelFC03, domain.LevelFC04)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	courseID, err := s.AddCourse(ctx, "Curso A", "", 8, "technical", nil)
	if err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}
	if _, err := s.SaveCourseIntention(ctx, userID, courseID, 1); err != nil {
		t.Fatalf("SaveCourseIntention() failed: %v", err)
	}

	err = s.DeleteCourse(ctx, courseID)
	if err == nil {
		t.Fatal("expected error deleting course with intentions")
	}
	if !IsConstraintViolation(err) {
		t.Errorf("expected constraint violation, got %v", err)
	}
}
