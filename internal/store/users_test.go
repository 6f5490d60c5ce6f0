package store

import (
	"context"
	"testing"
	"time"

	"github.com/marioghenriques/carreira/internal/domain"
)

func TestCreateUser_AndGetByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "Ana Lima", "ana@example.com", domain.LevelFC03, domain.LevelFC05)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("CreateUser() returned id %d", id)
	}

	user, err := s.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if user == nil {
		t.Fatal("GetUserByEmail() returned nil for existing user")
	}
	if user.ID != id {
		t.Errorf("ID = %d, want %d", user.ID, id)
	}
	if user.Name != "Ana Lima" {
		t.Errorf("Name = %q, want %q", user.Name, "Ana Lima")
	}
	if user.CurrentLevel != domain.LevelFC03 || user.TargetLevel != domain.LevelFC05 {
		t.Errorf("levels = %s -> %s, want FC-03 -> FC-05", user.CurrentLevel, user.TargetLevel)
	}

	want := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	if !user.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", user.CreatedAt, want)
	}
}

func TestGetUserByEmail_Absent(t *testing.T) {
	s := newTestStore(t)

	user, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for absent user, got %+v", user)
	}
}

func TestGetUserByID_Absent(t *testing.T) {
	s := newTestStore(t)

	user, err := s.GetUserByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for absent user, got %+v", user)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "Ana Lima", "ana@example.com", domain.LevelFC03, domain.LevelFC04); err != nil {
		t.Fatalf("first CreateUser() failed: %v", err)
	}

	_, err := s.CreateUser(ctx, "Outra Ana", "ana@example.com", domain.LevelFC04, domain.LevelFC05)
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestCreateUser_InvalidLevel(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(context.Background(), "Ana Lima", "ana@example.com", domain.Level("FC-99"), domain.LevelFC04)
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
	if !IsCheckViolation(err) {
		t.Errorf("expected check violation, got %v", err)
	}
}

func TestListUsers_Empty(t *testing.T) {
	s := newTestStore(t)

	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if users == nil {
		t.Error("ListUsers() returned nil, want empty slice")
	}
	if len(users) != 0 {
		t.Errorf("len = %d, want 0", len(users))
	}
}

func TestListUsers_NewestFirst(t *testing.T) {
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	s, err := Open(":memory:", WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "Ana Lima", "ana@example.com", domain.LevelFC03, domain.LevelFC04); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	at = at.Add(24 * time.Hour)
	if _, err := s.CreateUser(ctx, "Bruno Costa", "bruno@example.com", domain.LevelFC03, domain.LevelFC04); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[0].Email != "bruno@example.com" {
		t.Errorf("first user = %s, want newest (bruno)", users[0].Email)
	}
}

func TestDeleteUser_CascadesRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.CreateUser(ctx, "Ana Lima", "ana@example.com", domain.LevelFC03, domain.LevelFC04)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	compID, err := s.AddCompetency(ctx, "Arquitetura", "", domain.CategoryTechnical, domain.LevelFC04, 1.0)
	if err != nil {
		t.Fatalf("AddCompetency() failed: %v", err)
	}
	courseID, err := s.AddCourse(ctx, "Curso A", "", 8, "technical", []int64{compID})
	if err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}
	if err := s.UpsertAssessment(ctx, userID, compID, 3, ""); err != nil {
		t.Fatalf("UpsertAssessment() failed: %v", err)
	}
	if _, err := s.SaveCourseIntention(ctx, userID, courseID, 1); err != nil {
		t.Fatalf("SaveCourseIntention() failed: %v", err)
	}

	if err := s.DeleteUser(ctx, userID); err != nil {
		t.Fatalf("DeleteUser() failed: %v", err)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if user != nil {
		t.Error("user still present after delete")
	}

	assessments, err := s.GetAssessmentsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssessmentsByUser() failed: %v", err)
	}
	if len(assessments) != 0 {
		t.Errorf("assessments left behind: %d", len(assessments))
	}

	intentions, err := s.ListIntentionsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListIntentionsByUser() failed: %v", err)
	}
	if len(intentions) != 0 {
		t.Errorf("intentions left behind: %d", len(intentions))
	}
}

func TestDeleteUser_Absent(t *testing.T) {
	s := newTestStore(t)

	// Deleting a user that never existed is not an error.
	if err := s.DeleteUser(context.Background(), 42); err != nil {
		t.Errorf("DeleteUser() on absent user failed: %v", err)
	}
}
