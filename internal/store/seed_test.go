package store

import (
	"context"
	"testing"

	"github.com/marioghenriques/carreira/internal/domain"
)

func TestSeed_LoadsCatalog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seeded, err := s.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	if !seeded {
		t.Fatal("Seed() reported no-op on empty database")
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() failed: %v", err)
	}
	if counts.Competencies != 16 {
		t.Errorf("competencies = %d, want 16", counts.Competencies)
	}
	if counts.Courses != 10 {
		t.Errorf("courses = %d, want 10", counts.Courses)
	}

	// Four competencies per level.
	for _, level := range domain.Levels() {
		comps, err := s.ListCompetencies(ctx, CompetencyFilter{Level: level})
		if err != nil {
			t.Fatalf("ListCompetencies(%s) failed: %v", level, err)
		}
		if len(comps) != 4 {
			t.Errorf("level %s has %d competencies, want 4", level, len(comps))
		}
	}

	// Every seeded course starts active.
	courses, err := s.ListActiveCourses(ctx)
	if err != nil {
		t.Fatalf("ListActiveCourses() failed: %v", err)
	}
	if len(courses) != 10 {
		t.Errorf("active courses = %d, want 10", len(courses))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Seed(ctx); err != nil {
		t.Fatalf("first Seed() failed: %v", err)
	}
	seeded, err := s.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed() failed: %v", err)
	}
	if seeded {
		t.Error("second Seed() reported loading, want no-op")
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() failed: %v", err)
	}
	if counts.Competencies != 16 || counts.Courses != 10 {
		t.Errorf("catalog duplicated: %+v", counts)
	}
}

func TestSeed_DanglingCourseReferenceIsSkippedOnResolve(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}

	courses, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses() failed: %v", err)
	}

	// Resolving every course's competency list never errors, even for
	// ids with no matching competency row.
	for _, course := range courses {
		comps, err := s.ResolveCompetencies(ctx, course.CompetencyIDs)
		if err != nil {
			t.Fatalf("ResolveCompetencies(%s) failed: %v", course.Name, err)
		}
		if len(comps) > len(course.CompetencyIDs) {
			t.Errorf("course %s resolved %d competencies from %d ids", course.Name, len(comps), len(course.CompetencyIDs))
		}
	}
}
