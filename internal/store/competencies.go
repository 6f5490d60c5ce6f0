package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/marioghenriques/carreira/internal/domain"
)

// CompetencyFilter narrows ListCompetencies. Zero values mean "no
// filter"; both predicates combine with AND when set.
type CompetencyFilter struct {
	Level    domain.Level
	Category domain.Category
}

// ListCompetencies returns competencies ordered by (level, category,
// name), optionally filtered by level and/or category equality.
func (s *Store) ListCompetencies(ctx context.Context, filter CompetencyFilter) ([]domain.Competency, error) {
	query := `
		SELECT id, name, description, category, level, weight
		FROM competencies
		WHERE 1=1`
	var args []any

	if filter.Level != "" {
		query += " AND level = ?"
		args = append(args, string(filter.Level))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}

	query += " ORDER BY level ASC, category ASC, name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list competencies: %w", err)
	}
	defer rows.Close()

	var competencies []domain.Competency
	for rows.Next() {
		comp, err := scanCompetency(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan competency: %w", err)
		}
		competencies = append(competencies, *comp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate competencies: %w", err)
	}

	if competencies == nil {
		competencies = []domain.Competency{}
	}

	return competencies, nil
}

// GetCompetencyByID returns the competency with the given id, or nil
// when absent.
func (s *Store) GetCompetencyByID(ctx context.Context, id int64) (*domain.Competency, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, category, level, weight
		FROM competencies
		WHERE id = ?
	`, id)

	comp, err := scanCompetency(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get competency by id: %w", err)
	}
	return comp, nil
}

// ResolveCompetencies returns the competencies for the given ids in
// input order, silently skipping ids that no longer resolve. Course
// competency lists may carry dangling references after a delete.
func (s *Store) ResolveCompetencies(ctx context.Context, ids []int64) ([]domain.Competency, error) {
	if len(ids) == 0 {
		return []domain.Competency{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category, level, weight
		FROM competencies
		WHERE id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve competencies: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]domain.Competency)
	for rows.Next() {
		comp, err := scanCompetency(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan competency: %w", err)
		}
		byID[comp.ID] = *comp
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate competencies: %w", err)
	}

	resolved := make([]domain.Competency, 0, len(ids))
	for _, id := range ids {
		if comp, ok := byID[id]; ok {
			resolved = append(resolved, comp)
		}
	}

	return resolved, nil
}

// AddCompetency inserts a new competency and returns its generated id.
// Category, level and weight domains are enforced by the schema.
func (s *Store) AddCompetency(ctx context.Context, name, description string, category domain.Category, level domain.Level, weight float64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO competencies (name, description, category, level, weight)
		VALUES (?, ?, ?, ?, ?)
	`, name, description, string(category), string(level), weight)
	if err != nil {
		return 0, wrapWrite("add competency", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add competency: last insert id: %w", err)
	}
	return id, nil
}

// DeleteCompetency removes a competency. References to it inside course
// competency lists are left in place; readers skip them on resolution.
// Deleting a competency that still has assessments fails with a
// ConstraintError (foreign key).
func (s *Store) DeleteCompetency(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM competencies WHERE id = ?", id); err != nil {
		return wrapWrite("delete competency", err)
	}
	return nil
}

// scanCompetency scans a competency row through the given scan function.
func scanCompetency(scan func(...any) error) (*domain.Competency, error) {
	var comp domain.Competency
	var category, level string

	if err := scan(&comp.ID, &comp.Name, &comp.Description, &category, &level, &comp.Weight); err != nil {
		return nil, err
	}

	comp.Category = domain.Category(category)
	comp.Level = domain.Level(level)

	return &comp, nil
}
