package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marioghenriques/carreira/internal/domain"
)

// TableCounts holds per-table row totals for the dashboard.
type TableCounts struct {
	Users        int `json:"users"`
	Competencies int `json:"competencies"`
	Courses      int `json:"courses"`
	Assessments  int `json:"assessments"`
	Intentions   int `json:"intentions"`
}

// LevelCount is a group-by-level bucket.
type LevelCount struct {
	Level domain.Level `json:"level"`
	Count int          `json:"count"`
}

// ScoreCount is one bucket of the assessment score histogram.
type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// StatusCount is one bucket of the intention status histogram.
type StatusCount struct {
	Status domain.IntentionStatus `json:"status"`
	Count  int                    `json:"count"`
}

// CourseDemand pairs a course with its intention count. Courses with no
// intentions are included with a zero count.
type CourseDemand struct {
	CourseID      int64  `json:"course_id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	DurationHours int    `json:"duration_hours"`
	IsActive      bool   `json:"is_active"`
	Intentions    int    `json:"intentions"`
}

// CompetencyAverage is the per-competency assessment summary.
// AverageScore is zero when Samples is zero.
type CompetencyAverage struct {
	CompetencyID int64           `json:"competency_id"`
	Name         string          `json:"name"`
	Category     domain.Category `json:"category"`
	Level        domain.Level    `json:"level"`
	AverageScore float64         `json:"average_score"`
	Samples      int             `json:"samples"`
}

// UserEngagement is the per-user activity tuple. The timestamps are nil
// when the user has no assessments or intentions.
type UserEngagement struct {
	UserID         int64      `json:"user_id"`
	Name           string     `json:"name"`
	Assessments    int        `json:"assessments"`
	Intentions     int        `json:"intentions"`
	LastAssessment *time.Time `json:"last_assessment,omitempty"`
	LastIntention  *time.Time `json:"last_intention,omitempty"`
}

// UserProgress summarizes a user's movement toward the target level.
type UserProgress struct {
	UserID               int64        `json:"user_id"`
	Name                 string       `json:"name"`
	CurrentLevel         domain.Level `json:"current_level"`
	TargetLevel          domain.Level `json:"target_level"`
	AssessedCompetencies int          `json:"assessed_competencies"`
	AverageScore         float64      `json:"average_score"`
}

// LevelProgression is one (current, target) cell of the progression matrix.
type LevelProgression struct {
	CurrentLevel domain.Level `json:"current_level"`
	TargetLevel  domain.Level `json:"target_level"`
	Count        int          `json:"count"`
}

// MonthlyTrend is one month bucket of intention activity. Month is
// formatted as "YYYY-MM".
type MonthlyTrend struct {
	Month       string `json:"month"`
	Intentions  int    `json:"intentions"`
	ActiveUsers int    `json:"active_users"`
}

// Counts returns per-table row totals.
func (s *Store) Counts(ctx context.Context) (TableCounts, error) {
	var counts TableCounts
	for _, c := range []struct {
		table string
		dest  *int
	}{
		{"users", &counts.Users},
		{"competencies", &counts.Competencies},
		{"courses", &counts.Courses},
		{"assessments", &counts.Assessments},
		{"course_intentions", &counts.Intentions},
	} {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return TableCounts{}, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return counts, nil
}

// UsersByCurrentLevel returns user counts grouped by current level,
// ordered by level.
func (s *Store) UsersByCurrentLevel(ctx context.Context) ([]LevelCount, error) {
	return s.levelCounts(ctx, "current_level")
}

// UsersByTargetLevel returns user counts grouped by target level,
// ordered by level.
func (s *Store) UsersByTargetLevel(ctx context.Context) ([]LevelCount, error) {
	return s.levelCounts(ctx, "target_level")
}

func (s *Store) levelCounts(ctx context.Context, column string) ([]LevelCount, error) {
	// column is one of two fixed identifiers, never user input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s, COUNT(*) FROM users GROUP BY %s ORDER BY %s ASC
	`, column, column, column))
	if err != nil {
		return nil, fmt.Errorf("users by %s: %w", column, err)
	}
	defer rows.Close()

	var counts []LevelCount
	for rows.Next() {
		var level string
		var lc LevelCount
		if err := rows.Scan(&level, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan level count: %w", err)
		}
		lc.Level = domain.Level(level)
		counts = append(counts, lc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate level counts: %w", err)
	}

	if counts == nil {
		counts = []LevelCount{}
	}

	return counts, nil
}

// AssessmentScoreHistogram returns assessment counts grouped by score,
// ordered by score ascending. Scores with no assessments are omitted.
func (s *Store) AssessmentScoreHistogram(ctx context.Context) ([]ScoreCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT score, COUNT(*) FROM assessments GROUP BY score ORDER BY score ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("score histogram: %w", err)
	}
	defer rows.Close()

	var counts []ScoreCount
	for rows.Next() {
		var sc ScoreCount
		if err := rows.Scan(&sc.Score, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan score count: %w", err)
		}
		counts = append(counts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score counts: %w", err)
	}

	if counts == nil {
		counts = []ScoreCount{}
	}

	return counts, nil
}

// IntentionStatusHistogram returns intention counts grouped by status,
// ordered by status name.
func (s *Store) IntentionStatusHistogram(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM course_intentions GROUP BY status ORDER BY status ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("status histogram: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var status string
		var sc StatusCount
		if err := rows.Scan(&status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		sc.Status = domain.IntentionStatus(status)
		counts = append(counts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	if counts == nil {
		counts = []StatusCount{}
	}

	return counts, nil
}

// TopCoursesByDemand returns up to n courses ordered by intention count
// descending. Ties keep course id order; zero-intention courses are
// included.
func (s *Store) TopCoursesByDemand(ctx context.Context, n int) ([]CourseDemand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.category, c.duration_hours, c.is_active, COUNT(ci.id) AS intentions
		FROM courses c
		LEFT JOIN course_intentions ci ON c.id = ci.course_id
		GROUP BY c.id
		ORDER BY intentions DESC, c.id ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("courses by demand: %w", err)
	}
	defer rows.Close()

	var demand []CourseDemand
	for rows.Next() {
		var cd CourseDemand
		if err := rows.Scan(&cd.CourseID, &cd.Name, &cd.Category, &cd.DurationHours, &cd.IsActive, &cd.Intentions); err != nil {
			return nil, fmt.Errorf("scan course demand: %w", err)
		}
		demand = append(demand, cd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course demand: %w", err)
	}

	if demand == nil {
		demand = []CourseDemand{}
	}

	return demand, nil
}

// CompetencyAverages returns the per-competency average score and
// sample count, ordered like ListCompetencies (level, category, name).
func (s *Store) CompetencyAverages(ctx context.Context) ([]CompetencyAverage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.category, c.level, AVG(a.score), COUNT(a.id)
		FROM competencies c
		LEFT JOIN assessments a ON c.id = a.competency_id
		GROUP BY c.id
		ORDER BY c.level ASC, c.category ASC, c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("competency averages: %w", err)
	}
	defer rows.Close()

	var averages []CompetencyAverage
	for rows.Next() {
		var ca CompetencyAverage
		var category, level string
		var avg sql.NullFloat64
		if err := rows.Scan(&ca.CompetencyID, &ca.Name, &category, &level, &avg, &ca.Samples); err != nil {
			return nil, fmt.Errorf("scan competency average: %w", err)
		}
		ca.Category = domain.Category(category)
		ca.Level = domain.Level(level)
		if avg.Valid {
			ca.AverageScore = avg.Float64
		}
		averages = append(averages, ca)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate competency averages: %w", err)
	}

	if averages == nil {
		averages = []CompetencyAverage{}
	}

	return averages, nil
}

// UserEngagementReport returns per-user assessment and intention counts
// with the most recent activity timestamps, most engaged users first.
func (s *Store) UserEngagementReport(ctx context.Context) ([]UserEngagement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name,
		       COUNT(DISTINCT a.id) AS assessments,
		       COUNT(DISTINCT ci.id) AS intentions,
		       MAX(a.assessed_at),
		       MAX(ci.intention_date)
		FROM users u
		LEFT JOIN assessments a ON u.id = a.user_id
		LEFT JOIN course_intentions ci ON u.id = ci.user_id
		GROUP BY u.id
		ORDER BY assessments DESC, intentions DESC, u.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("user engagement: %w", err)
	}
	defer rows.Close()

	var engagement []UserEngagement
	for rows.Next() {
		var ue UserEngagement
		var lastAssessment, lastIntention sql.NullString
		if err := rows.Scan(&ue.UserID, &ue.Name, &ue.Assessments, &ue.Intentions, &lastAssessment, &lastIntention); err != nil {
			return nil, fmt.Errorf("scan user engagement: %w", err)
		}

		if lastAssessment.Valid {
			t, err := parseTime(lastAssessment.String)
			if err != nil {
				return nil, fmt.Errorf("user %d: %w", ue.UserID, err)
			}
			ue.LastAssessment = &t
		}
		if lastIntention.Valid {
			t, err := parseTime(lastIntention.String)
			if err != nil {
				return nil, fmt.Errorf("user %d: %w", ue.UserID, err)
			}
			ue.LastIntention = &t
		}

		engagement = append(engagement, ue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user engagement: %w", err)
	}

	if engagement == nil {
		engagement = []UserEngagement{}
	}

	return engagement, nil
}

// UserProgressReport returns per-user assessed-competency counts and
// average scores, highest average first.
func (s *Store) UserProgressReport(ctx context.Context) ([]UserProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.current_level, u.target_level,
		       COUNT(DISTINCT a.competency_id) AS assessed,
		       AVG(a.score) AS avg_score
		FROM users u
		LEFT JOIN assessments a ON u.id = a.user_id
		GROUP BY u.id
		ORDER BY avg_score DESC, u.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("user progress: %w", err)
	}
	defer rows.Close()

	var progress []UserProgress
	for rows.Next() {
		var up UserProgress
		var current, target string
		var avg sql.NullFloat64
		if err := rows.Scan(&up.UserID, &up.Name, &current, &target, &up.AssessedCompetencies, &avg); err != nil {
			return nil, fmt.Errorf("scan user progress: %w", err)
		}
		up.CurrentLevel = domain.Level(current)
		up.TargetLevel = domain.Level(target)
		if avg.Valid {
			up.AverageScore = avg.Float64
		}
		progress = append(progress, up)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user progress: %w", err)
	}

	if progress == nil {
		progress = []UserProgress{}
	}

	return progress, nil
}

// LevelProgressionMatrix returns user counts grouped by (current,
// target) level pair, ordered by both levels ascending.
func (s *Store) LevelProgressionMatrix(ctx context.Context) ([]LevelProgression, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT current_level, target_level, COUNT(*)
		FROM users
		GROUP BY current_level, target_level
		ORDER BY current_level ASC, target_level ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("level progression: %w", err)
	}
	defer rows.Close()

	var matrix []LevelProgression
	for rows.Next() {
		var current, target string
		var lp LevelProgression
		if err := rows.Scan(&current, &target, &lp.Count); err != nil {
			return nil, fmt.Errorf("scan level progression: %w", err)
		}
		lp.CurrentLevel = domain.Level(current)
		lp.TargetLevel = domain.Level(target)
		matrix = append(matrix, lp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate level progression: %w", err)
	}

	if matrix == nil {
		matrix = []LevelProgression{}
	}

	return matrix, nil
}

// AverageAssessmentScore returns the global mean score and whether any
// assessment exists.
func (s *Store) AverageAssessmentScore(ctx context.Context) (float64, bool, error) {
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, "SELECT AVG(score) FROM assessments").Scan(&avg); err != nil {
		return 0, false, fmt.Errorf("average score: %w", err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

// MonthlyIntentionTrends returns month-bucketed intention counts and
// distinct active-user counts, limited to the 12 most recent months,
// most recent first.
func (s *Store) MonthlyIntentionTrends(ctx context.Context) ([]MonthlyTrend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', intention_date) AS month,
		       COUNT(*) AS intentions,
		       COUNT(DISTINCT user_id) AS active_users
		FROM course_intentions
		GROUP BY month
		ORDER BY month DESC
		LIMIT 12
	`)
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}
	defer rows.Close()

	var trends []MonthlyTrend
	for rows.Next() {
		var mt MonthlyTrend
		if err := rows.Scan(&mt.Month, &mt.Intentions, &mt.ActiveUsers); err != nil {
			return nil, fmt.Errorf("scan monthly trend: %w", err)
		}
		trends = append(trends, mt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly trends: %w", err)
	}

	if trends == nil {
		trends = []MonthlyTrend{}
	}

	return trends, nil
}
