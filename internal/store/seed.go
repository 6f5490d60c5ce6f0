package store

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// seedCatalog mirrors the structure of seed.yaml.
type seedCatalog struct {
	Competencies []seedCompetency `yaml:"competencies"`
	Courses      []seedCourse     `yaml:"courses"`
}

type seedCompetency struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	Level       string  `yaml:"level"`
	Weight      float64 `yaml:"weight"`
}

type seedCourse struct {
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description"`
	DurationHours int     `yaml:"duration_hours"`
	Category      string  `yaml:"category"`
	CompetencyIDs []int64 `yaml:"competency_ids"`
}

// Seed loads the embedded reference catalog into an empty database.
// It is a no-op when any competency already exists, so repeated process
// starts never double-seed. All inserts happen in one transaction.
// Reports whether the catalog was actually loaded.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(seedYAML, &catalog); err != nil {
		return false, fmt.Errorf("seed: parse catalog: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("seed: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existing int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM competencies").Scan(&existing); err != nil {
		return false, fmt.Errorf("seed: count competencies: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	for _, comp := range catalog.Competencies {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO competencies (name, description, category, level, weight)
			VALUES (?, ?, ?, ?, ?)
		`, comp.Name, comp.Description, comp.Category, comp.Level, comp.Weight); err != nil {
			return false, wrapWrite("seed competency "+comp.Name, err)
		}
	}

	for _, course := range catalog.Courses {
		compIDs, err := marshalCompetencyIDs(course.CompetencyIDs)
		if err != nil {
			return false, fmt.Errorf("seed course %s: %w", course.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO courses (name, description, duration_hours, category, competency_ids)
			VALUES (?, ?, ?, ?, ?)
		`, course.Name, course.Description, course.DurationHours, course.Category, compIDs); err != nil {
			return false, wrapWrite("seed course "+course.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("seed: commit: %w", err)
	}
	return true, nil
}
