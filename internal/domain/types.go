package domain

import "time"

// User is a tracked person, identified uniquely by email.
// Created on first login; the career levels describe where the user is
// and where they want to get.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CurrentLevel Level     `json:"current_level"`
	TargetLevel  Level     `json:"target_level"`
	CreatedAt    time.Time `json:"created_at"`
}

// Competency is a named skill or trait a user can be scored against.
//
// Weight is a descriptive attribute carried for future scoring
// extensions; it does not enter gap detection or course ranking.
type Competency struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Level       Level    `json:"level"`
	Weight      float64  `json:"weight"`
}

// Course is a training offer addressing one or more competencies.
//
// CompetencyIDs is a denormalized id list (stored as JSON in a single
// column). Referential integrity across it is application-enforced only:
// ids whose competency was deleted are tolerated and skipped on
// resolution.
type Course struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	DurationHours int     `json:"duration_hours"`
	Category      string  `json:"category"`
	CompetencyIDs []int64 `json:"competency_ids"`
	IsActive      bool    `json:"is_active"`
}

// Assessment is a user's self-reported score for one competency.
// Exactly one row exists per (user, competency) pair.
type Assessment struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CompetencyID int64     `json:"competency_id"`
	Score        int       `json:"score"`
	AssessedAt   time.Time `json:"assessed_at"`
	Notes        string    `json:"notes,omitempty"`
}

// CourseIntention records a user's registered interest in a course.
// A user may record the same course more than once; duplicates are
// intentional, not deduplicated.
type CourseIntention struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	CourseID      int64           `json:"course_id"`
	IntentionDate time.Time       `json:"intention_date"`
	Status        IntentionStatus `json:"status"`
	Priority      int             `json:"priority"`
}

// Score bounds for assessments and intention priorities.
const (
	MinScore    = 1
	MaxScore    = 5
	MinPriority = 1
	MaxPriority = 5
)
