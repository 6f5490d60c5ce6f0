package store

import (
	"context"
	"fmt"

	"github.com/marioghenriques/carreira/internal/domain"
)

// SaveCourseIntention records a user's interest in a course with the
// given priority and returns the generated id. Every call inserts a new
// row: there is no uniqueness constraint on (user, course), and
// repeated intentions for the same course are accepted. New intentions
// start in StatusIntended. A priority outside [1,5] fails with a
// ConstraintError (ConstraintCheck).
func (s *Store) SaveCourseIntention(ctx context.Context, userID, courseID int64, priority int) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO course_intentions (user_id, course_id, intention_date, status, priority)
		VALUES (?, ?, ?, ?, ?)
	`, userID, courseID, s.timestamp(), string(domain.StatusIntended), priority)
	if err != nil {
		return 0, wrapWrite("save intention", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save intention: last insert id: %w", err)
	}
	return id, nil
}

// ListIntentionsByUser returns a user's intentions ordered by priority
// ascending, then intention date ascending.
func (s *Store) ListIntentionsByUser(ctx context.Context, userID int64) ([]domain.CourseIntention, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, course_id, intention_date, status, priority
		FROM course_intentions
		WHERE user_id = ?
		ORDER BY priority ASC, intention_date ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list intentions: %w", err)
	}
	defer rows.Close()

	var intentions []domain.CourseIntention
	for rows.Next() {
		var in domain.CourseIntention
		var date, status string
		if err := rows.Scan(&in.ID, &in.UserID, &in.CourseID, &date, &status, &in.Priority); err != nil {
			return nil, fmt.Errorf("scan intention: %w", err)
		}

		t, err := parseTime(date)
		if err != nil {
			return nil, fmt.Errorf("intention %d: %w", in.ID, err)
		}
		in.IntentionDate = t
		in.Status = domain.IntentionStatus(status)

		intentions = append(intentions, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intentions: %w", err)
	}

	if intentions == nil {
		intentions = []domain.CourseIntention{}
	}

	return intentions, nil
}

// UpdateIntentionStatus advances the status of an intention. An
// undefined status fails with a ConstraintError (ConstraintCheck);
// updating a missing intention returns ErrNotFound.
func (s *Store) UpdateIntentionStatus(ctx context.Context, id int64, status domain.IntentionStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE course_intentions SET status = ? WHERE id = ?
	`, string(status), id)
	if err != nil {
		return wrapWrite("update intention status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update intention status: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update intention %d: %w", id, ErrNotFound)
	}

	return nil
}
