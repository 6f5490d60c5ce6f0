// Package harness replays scenario files against a fresh in-memory
// database and snapshots what the system derives from them: competency
// gaps, course recommendations and aggregate reports. Snapshots are
// compared against golden files, so a scenario pins the observable
// behavior of the whole read path end to end.
package harness

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/marioghenriques/carreira/internal/advisor"
	"github.com/marioghenriques/carreira/internal/domain"
	"github.com/marioghenriques/carreira/internal/store"
	"github.com/marioghenriques/carreira/internal/testutil"
)

// baseTime anchors every scenario that does not pin its own timestamps.
var baseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// stepTimeLayout is the timestamp format accepted in scenario files.
const stepTimeLayout = "2006-01-02 15:04:05"

// Snapshot is the full observable outcome of one scenario run.
type Snapshot struct {
	Scenario string               `json:"scenario"`
	Counts   store.TableCounts    `json:"counts"`
	Users    []UserSnapshot       `json:"users"`
	Demand   []store.CourseDemand `json:"demand"`
	Trends   []store.MonthlyTrend `json:"trends"`
}

// UserSnapshot is the derived state for one user.
type UserSnapshot struct {
	Email           string                   `json:"email"`
	TargetLevel     domain.Level             `json:"target_level"`
	Summary         advisor.Summary          `json:"summary"`
	Gaps            []int64                  `json:"gaps"`
	Recommendations []RecommendationSnapshot `json:"recommendations"`
}

// RecommendationSnapshot is one recommended course in rank order.
type RecommendationSnapshot struct {
	CourseID  int64 `json:"course_id"`
	Relevance int   `json:"relevance"`
}

// Run executes a scenario against a fresh in-memory database and
// returns the derived snapshot. The scenario clock starts at a fixed
// base time; steps with an "at" field pin it before writing, so every
// stored timestamp is deterministic.
func Run(ctx context.Context, scenario *Scenario) (*Snapshot, error) {
	clock := testutil.NewClock(baseTime)

	st, err := store.Open(":memory:", store.WithClock(clock.Now))
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	defer st.Close()

	if err := buildCatalog(ctx, st, scenario); err != nil {
		return nil, err
	}

	userIDs := make(map[string]int64, len(scenario.Users))
	for _, step := range scenario.Users {
		if err := pinClock(clock, step.At); err != nil {
			return nil, fmt.Errorf("user %s: %w", step.Email, err)
		}
		id, err := st.CreateUser(ctx, step.Name, step.Email, domain.Level(step.Current), domain.Level(step.Target))
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", step.Email, err)
		}
		userIDs[step.Email] = id
	}

	for _, step := range scenario.Assessments {
		if err := pinClock(clock, step.At); err != nil {
			return nil, fmt.Errorf("assessment for %s: %w", step.Email, err)
		}
		userID, ok := userIDs[step.Email]
		if !ok {
			return nil, fmt.Errorf("assessment for unknown user %s", step.Email)
		}
		if err := st.UpsertAssessment(ctx, userID, step.Competency, step.Score, step.Notes); err != nil {
			return nil, fmt.Errorf("assess %s competency %d: %w", step.Email, step.Competency, err)
		}
	}

	for _, step := range scenario.Intentions {
		if err := pinClock(clock, step.At); err != nil {
			return nil, fmt.Errorf("intention for %s: %w", step.Email, err)
		}
		userID, ok := userIDs[step.Email]
		if !ok {
			return nil, fmt.Errorf("intention for unknown user %s", step.Email)
		}
		priority := step.Priority
		if priority == 0 {
			priority = 3
		}
		id, err := st.SaveCourseIntention(ctx, userID, step.Course, priority)
		if err != nil {
			return nil, fmt.Errorf("intend %s course %d: %w", step.Email, step.Course, err)
		}
		if step.Status != "" && domain.IntentionStatus(step.Status) != domain.StatusIntended {
			if err := st.UpdateIntentionStatus(ctx, id, domain.IntentionStatus(step.Status)); err != nil {
				return nil, fmt.Errorf("advance intention %d: %w", id, err)
			}
		}
	}

	return snapshot(ctx, st, scenario)
}

// buildCatalog loads the scenario catalog, or the embedded seed when
// the scenario defines none.
func buildCatalog(ctx context.Context, st *store.Store, scenario *Scenario) error {
	if len(scenario.Competencies) == 0 && len(scenario.Courses) == 0 {
		if _, err := st.Seed(ctx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		return nil
	}

	for _, step := range scenario.Competencies {
		weight := step.Weight
		if weight == 0 {
			weight = 1.0
		}
		if _, err := st.AddCompetency(ctx, step.Name, step.Description,
			domain.Category(step.Category), domain.Level(step.Level), weight); err != nil {
			return fmt.Errorf("add competency %s: %w", step.Name, err)
		}
	}
	for _, step := range scenario.Courses {
		if _, err := st.AddCourse(ctx, step.Name, step.Description,
			step.DurationHours, step.Category, step.CompetencyIDs); err != nil {
			return fmt.Errorf("add course %s: %w", step.Name, err)
		}
	}
	return nil
}

// snapshot derives the observable state for every scenario user plus
// the aggregate reports.
func snapshot(ctx context.Context, st *store.Store, scenario *Scenario) (*Snapshot, error) {
	counts, err := st.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tables: %w", err)
	}

	snap := &Snapshot{
		Scenario: scenario.Name,
		Counts:   counts,
		Users:    make([]UserSnapshot, 0, len(scenario.Users)),
	}

	courses, err := st.ListActiveCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	for _, step := range scenario.Users {
		user, err := st.GetUserByEmail(ctx, step.Email)
		if err != nil || user == nil {
			return nil, fmt.Errorf("reload user %s: %w", step.Email, err)
		}

		target, err := st.ListCompetencies(ctx, store.CompetencyFilter{Level: user.TargetLevel})
		if err != nil {
			return nil, fmt.Errorf("target competencies for %s: %w", step.Email, err)
		}
		assessments, err := st.GetAssessmentsByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("assessments for %s: %w", step.Email, err)
		}

		gaps := advisor.ComputeGaps(target, assessments)
		gapIDs := make([]int64, 0, len(gaps))
		for id := range gaps {
			gapIDs = append(gapIDs, id)
		}
		sort.Slice(gapIDs, func(i, j int) bool { return gapIDs[i] < gapIDs[j] })

		ranked := advisor.Recommended(advisor.RankCourses(courses, gaps, ""))
		recs := make([]RecommendationSnapshot, 0, len(ranked))
		for _, rc := range ranked {
			recs = append(recs, RecommendationSnapshot{CourseID: rc.Course.ID, Relevance: rc.Relevance})
		}

		snap.Users = append(snap.Users, UserSnapshot{
			Email:           user.Email,
			TargetLevel:     user.TargetLevel,
			Summary:         advisor.Summarize(target, assessments),
			Gaps:            gapIDs,
			Recommendations: recs,
		})
	}

	snap.Demand, err = st.TopCoursesByDemand(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("course demand: %w", err)
	}
	snap.Trends, err = st.MonthlyIntentionTrends(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}

	return snap, nil
}

// pinClock sets the scenario clock from an optional step timestamp.
func pinClock(clock *testutil.Clock, at string) error {
	if at == "" {
		return nil
	}
	t, err := time.ParseInLocation(stepTimeLayout, at, time.UTC)
	if err != nil {
		return fmt.Errorf("bad timestamp %q: %w", at, err)
	}
	clock.Set(t)
	return nil
}
