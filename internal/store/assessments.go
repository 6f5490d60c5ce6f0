package store

import (
	"context"
	"fmt"

	"github.com/marioghenriques/carreira/internal/domain"
)

// UpsertAssessment inserts or replaces the assessment for a (user,
// competency) pair. On conflict the score, notes and timestamp are
// overwritten; the row count never grows past one per pair. A score
// outside [1,5] fails with a ConstraintError (ConstraintCheck) and
// leaves any prior assessment unchanged.
func (s *Store) UpsertAssessment(ctx context.Context, userID, competencyID int64, score int, notes string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assessments (user_id, competency_id, score, assessed_at, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, competency_id) DO UPDATE SET
			score = excluded.score,
			assessed_at = excluded.assessed_at,
			notes = excluded.notes
	`, userID, competencyID, score, s.timestamp(), notes)
	if err != nil {
		return wrapWrite("upsert assessment", err)
	}
	return nil
}

// GetAssessmentsByUser returns all assessments of a user keyed by
// competency id. Returns an empty map when the user has none.
func (s *Store) GetAssessmentsByUser(ctx context.Context, userID int64) (map[int64]domain.Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, competency_id, score, assessed_at, notes
		FROM assessments
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get assessments: %w", err)
	}
	defer rows.Close()

	assessments := make(map[int64]domain.Assessment)
	for rows.Next() {
		var a domain.Assessment
		var assessedAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.CompetencyID, &a.Score, &assessedAt, &a.Notes); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}

		t, err := parseTime(assessedAt)
		if err != nil {
			return nil, fmt.Errorf("assessment %d: %w", a.ID, err)
		}
		a.AssessedAt = t

		assessments[a.CompetencyID] = a
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}

	return assessments, nil
}

// ResetUserAssessments bulk-deletes all assessments of a user and
// returns how many were removed. Zero is not an error.
func (s *Store) ResetUserAssessments(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM assessments WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("reset assessments: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset assessments: rows affected: %w", err)
	}
	return removed, nil
}
