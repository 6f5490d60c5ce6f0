package store

import (
	"context"
	"testing"
	"time"

	"github.com/marioghenriques/carreira/internal/domain"
)

// seedUserAndCompetency creates the minimal records assessment tests need.
func seedUserAndCompetency(t *testing.T, s *Store) (userID, compID int64) {
	t.Helper()
	ctx := context.Background()

	userID, err := s.CreateUser(ctx, "Ana Lima", "ana@example.com", domain.LevelFC03, domain.LevelFC04)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	compID, err = s.AddCompetency(ctx, "Arquitetura", "", domain.CategoryTechnical, domain.LevelFC04, 1.0)
	if err != nil {
		t.Fatalf("AddCompetency() failed: %v", err)
	}
	return userID, compID
}

func TestUpsertAssessment_Insert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, compID := seedUserAndCompetency(t, s)

	if err := s.UpsertAssessment(ctx, userID, compID, 3, "primeira avaliacao"); err != nil {
		t.Fatalf("UpsertAssessment() failed: %v", err)
	}

	assessments, err := s.GetAssessmentsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssessmentsByUser() failed: %v", err)
	}
	a, ok := assessments[compID]
	if !ok {
		t.Fatal("assessment not found by competency id")
	}
	if a.Score != 3 {
		t.Errorf("Score = %d, want 3", a.Score)
	}
	if a.Notes != "primeira avaliacao" {
		t.Errorf("Notes = %q", a.Notes)
	}
}

func TestUpsertAssessment_ReplacesPrevious(t *testing.T) {
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s, err := Open(":memory:", WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()
	ctx := context.Background()
	userID, compID := seedUserAndCompetency(t, s)

	if err := s.UpsertAssessment(ctx, userID, compID, 2, "antes"); err != nil {
		t.Fatalf("first UpsertAssessment() failed: %v", err)
	}

	at = at.Add(72 * time.Hour)
	if err := s.UpsertAssessment(ctx, userID, compID, 4, "depois"); err != nil {
		t.Fatalf("second UpsertAssessment() failed: %v", err)
	}

	assessments, err := s.GetAssessmentsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssessmentsByUser() failed: %v", err)
	}
	if len(assessments) != 1 {
		t.Fatalf("len = %d, want 1 (upsert must replace)", len(assessments))
	}

	a := assessments[compID]
	if a.Score != 4 || a.Notes != "depois" {
		t.Errorf("assessment = score %d notes %q, want 4/depois", a.Score, a.Notes)
	}
	if !a.AssessedAt.Equal(at) {
		t.Errorf("AssessedAt = %v, want bumped to %v", a.AssessedAt, at)
	}
}

func TestUpsertAssessment_ScoreOutOfRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, compID := seedUserAndCompetency(t, s)

	if err := s.UpsertAssessment(ctx, userID, compID, 3, "baseline"); err != nil {
		t.Fatalf("UpsertAssessment: %v", err)
	}

	for _, score := range []int{0, 6, -1} {
		err := s.UpsertAssessment(ctx, userID, compID, score, "")
		if err == nil {
			t.Errorf("score %d: expected error", score)
			continue
		}
		if !IsCheckViolation(err) {
			t.Errorf("score %d: expected check violation, got %v", score, err)
		}
	}

	// The failed writes must not disturb the existing row.
	assessments, err := s.GetAssessmentsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssessmentsByUser: %v", err)
	}
	if got := assessments[compID].Score; got != 3 {
		t.Errorf("prior assessment score = %d, want 3", got)
	}
	if got := assessments[compID].Notes; got != "baseline" {
		t.Errorf("prior assessment notes = %q, want %q", got, "baseline")
	}
}

func TestUpsertAssessment_UnknownCompetency(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, _ := seedUserAndCompetency(t, s)

	err := s.UpsertAssessment(ctx, userID, 999, 3, "")
	if err == nil {
		t.Fatal("expected error for unknown competency")
	}
	if !IsConstraintViolation(err) {
		t.Errorf("expected constraint violation, got %v", err)
	}
}

func TestGetAssessmentsByUser_Empty(t *testing.T) {
	s := newTestStore(t)
	userID, _ := seedUserAndCompetency(t, s)

	assessments, err := s.GetAssessmentsByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetAssessmentsByUser() failed: %v", err)
	}
	if len(assessments) != 0 {
		t.Errorf("len = %d, want 0", len(assessments))
	}
}

func TestResetUserAssessments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, compID := seedUserAndCompetency(t, s)

	comp2, err := s.AddCompetency(ctx, "Lideranca", "", domain.CategoryBehavioral, domain.LevelFC04, 1.0)
	if err != nil {
		t.Fatalf("AddCompetency() failed: %v", err)
	}
	if err := s.UpsertAssessment(ctx, userID, compID, 3, ""); err != nil {
		t.Fatalf("UpsertAssessment() failed: %v", err)
	}
	if err := s.UpsertAssessment(ctx, userID, comp2, 5, ""); err != nil {
		t.Fatalf("UpsertAssessment() failed: %v", err)
	}

	removed, err := s.ResetUserAssessments(ctx, userID)
	if err != nil {
		t.Fatalf("ResetUserAssessments() failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	assessments, err := s.GetAssessmentsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssessmentsByUser() failed: %v", err)
	}
	if len(assessments) != 0 {
		t.Errorf("assessments remain after reset: %d", len(assessments))
	}

	// Resetting again removes nothing and is not an error.
	removed, err = s.ResetUserAssessments(ctx, userID)
	if err != nil {
		t.Fatalf("second ResetUserAssessments() failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
