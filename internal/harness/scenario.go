package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a catalog, a set of
// users and their activity, replayed against a fresh database. The
// resulting snapshot of gaps, recommendations and reports is compared
// against a golden file.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Competencies and Courses build the catalog. When both are empty
	// the embedded seed catalog is loaded instead.
	Competencies []CompetencyStep `yaml:"competencies,omitempty"`
	Courses      []CourseStep     `yaml:"courses,omitempty"`

	// Users registers the participants. Emails must be unique.
	Users []UserStep `yaml:"users"`

	// Assessments and Intentions replay user activity in order. Steps
	// with an explicit timestamp pin the scenario clock before writing.
	Assessments []AssessmentStep `yaml:"assessments,omitempty"`
	Intentions  []IntentionStep  `yaml:"intentions,omitempty"`
}

// CompetencyStep adds one competency to the scenario catalog. Ids are
// assigned in file order starting at 1.
type CompetencyStep struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Category    string  `yaml:"category"`
	Level       string  `yaml:"level"`
	Weight      float64 `yaml:"weight,omitempty"` // defaults to 1.0
}

// CourseStep adds one course to the scenario catalog. Ids are assigned
// in file order starting at 1.
type CourseStep struct {
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description,omitempty"`
	DurationHours int     `yaml:"duration_hours"`
	Category      string  `yaml:"category"`
	CompetencyIDs []int64 `yaml:"competency_ids,omitempty"`
}

// UserStep registers one user.
type UserStep struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Current string `yaml:"current"`
	Target  string `yaml:"target"`
	At      string `yaml:"at,omitempty"` // "2006-01-02 15:04:05", UTC
}

// AssessmentStep records one self-assessment.
type AssessmentStep struct {
	Email      string `yaml:"email"`
	Competency int64  `yaml:"competency"`
	Score      int    `yaml:"score"`
	Notes      string `yaml:"notes,omitempty"`
	At         string `yaml:"at,omitempty"`
}

// IntentionStep records one course intention, optionally advanced to a
// later lifecycle status after insertion.
type IntentionStep struct {
	Email    string `yaml:"email"`
	Course   int64  `yaml:"course"`
	Priority int    `yaml:"priority,omitempty"` // defaults to 3
	Status   string `yaml:"status,omitempty"`   // defaults to intended
	At       string `yaml:"at,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if len(scenario.Users) == 0 {
		return nil, fmt.Errorf("scenario %s: no users", path)
	}
	return &scenario, nil
}
