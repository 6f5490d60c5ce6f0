package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marioghenriques/carreira/internal/domain"
)

// ListActiveCourses returns all visible courses with their competency id
// lists deserialized.
func (s *Store) ListActiveCourses(ctx context.Context) ([]domain.Course, error) {
	return s.listCourses(ctx, true)
}

// ListCourses returns every course including inactive ones. Admin view.
func (s *Store) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.listCourses(ctx, false)
}

func (s *Store) listCourses(ctx context.Context, activeOnly bool) ([]domain.Course, error) {
	query := `
		SELECT id, name, description, duration_hours, category, competency_ids, is_active
		FROM courses`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var course domain.Course
		var compIDs string
		if err := rows.Scan(
			&course.ID, &course.Name, &course.Description, &course.DurationHours,
			&course.Category, &compIDs, &course.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}

		ids, err := unmarshalCompetencyIDs(compIDs)
		if err != nil {
			return nil, fmt.Errorf("course %d: %w", course.ID, err)
		}
		course.CompetencyIDs = ids

		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	if courses == nil {
		courses = []domain.Course{}
	}

	return courses, nil
}

// AddCourse inserts a new course and returns its generated id. The
// competency id list is serialized to JSON; the ids are not checked
// against the competencies table (application-enforced relationship).
func (s *Store) AddCourse(ctx context.Context, name, description string, durationHours int, category string, competencyIDs []int64) (int64, error) {
	compIDs, err := marshalCompetencyIDs(competencyIDs)
	if err != nil {
		return 0, fmt.Errorf("add course: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (name, description, duration_hours, category, competency_ids)
		VALUES (?, ?, ?, ?, ?)
	`, name, description, durationHours, category, compIDs)
	if err != nil {
		return 0, wrapWrite("add course", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add course: last insert id: %w", err)
	}
	return id, nil
}

// DeleteCourse removes a course. Intentions referencing it keep the
// course id; deleting a course that still has intentions fails with a
// ConstraintError (foreign key).
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id); err != nil {
		return wrapWrite("delete course", err)
	}
	return nil
}

// ToggleCourseActive flips the visibility flag of a course. Returns
// ErrNotFound when no course has the given id.
func (s *Store) ToggleCourseActive(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "UPDATE courses SET is_active = NOT is_active WHERE id = ?", id)
	if err != nil {
		return wrapWrite("toggle course", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("toggle course: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("toggle course %d: %w", id, ErrNotFound)
	}

	return nil
}

// marshalCompetencyIDs serializes a competency id list for storage.
// A nil list serializes as the empty JSON array.
func marshalCompetencyIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("marshal competency ids: %w", err)
	}
	return string(data), nil
}

// unmarshalCompetencyIDs deserializes a stored competency id list.
// Empty column values are treated as the empty list.
func unmarshalCompetencyIDs(data string) ([]int64, error) {
	if data == "" {
		return []int64{}, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal competency ids: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
