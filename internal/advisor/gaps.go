// Package advisor derives competency gaps and course recommendations
// from already-fetched records. Every function is pure: no storage
// access, no side effects.
package advisor

import (
	"github.com/marioghenriques/carreira/internal/domain"
)

// Score thresholds for competency status. A competency counts as
// mastered at MasteryThreshold and above; the binary gap test uses
// "not yet mastered".
const (
	MasteryThreshold    = 4
	DevelopingThreshold = 2
)

// Status classifies how far along a user is on one competency.
type Status int

const (
	// StatusNeeded means unassessed or scored below DevelopingThreshold.
	StatusNeeded Status = iota
	// StatusDeveloping means scored in [DevelopingThreshold, MasteryThreshold).
	StatusDeveloping
	// StatusMastered means scored at MasteryThreshold or above.
	StatusMastered
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusMastered:
		return "mastered"
	case StatusDeveloping:
		return "developing"
	default:
		return "needed"
	}
}

// ScoreStatus classifies a raw assessment score.
func ScoreStatus(score int) Status {
	switch {
	case score >= MasteryThreshold:
		return StatusMastered
	case score >= DevelopingThreshold:
		return StatusDeveloping
	default:
		return StatusNeeded
	}
}

// ComputeGaps returns the set of target-level competency ids the user
// has not yet mastered: unassessed, or assessed below MasteryThreshold.
func ComputeGaps(targetCompetencies []domain.Competency, assessments map[int64]domain.Assessment) map[int64]struct{} {
	gaps := make(map[int64]struct{})
	for _, comp := range targetCompetencies {
		a, ok := assessments[comp.ID]
		if !ok || a.Score < MasteryThreshold {
			gaps[comp.ID] = struct{}{}
		}
	}
	return gaps
}

// Summary aggregates competency status counts for a dashboard view.
type Summary struct {
	Mastered   int     `json:"mastered"`
	Developing int     `json:"developing"`
	Needed     int     `json:"needed"`
	Total      int     `json:"total"`
	Completion float64 `json:"completion"` // mastered / total, in percent
}

// Summarize classifies each target-level competency against the user's
// assessments and returns the aggregate counts. Completion is zero when
// there are no competencies.
func Summarize(targetCompetencies []domain.Competency, assessments map[int64]domain.Assessment) Summary {
	var sum Summary
	for _, comp := range targetCompetencies {
		status := StatusNeeded
		if a, ok := assessments[comp.ID]; ok {
			status = ScoreStatus(a.Score)
		}
		switch status {
		case StatusMastered:
			sum.Mastered++
		case StatusDeveloping:
			sum.Developing++
		default:
			sum.Needed++
		}
	}
	sum.Total = len(targetCompetencies)
	if sum.Total > 0 {
		sum.Completion = float64(sum.Mastered) / float64(sum.Total) * 100
	}
	return sum
}

// Impact splits a course's competencies at the user's target level into
// those it would address (still a gap) and those already mastered.
type Impact struct {
	Addressed []domain.Competency `json:"addressed"`
	Mastered  []domain.Competency `json:"mastered"`
}

// CourseImpact evaluates what a course contributes toward the user's
// target level. Only competencies at the target level are considered;
// competency ids the course references but that are not in
// targetCompetencies (other levels, or deleted) are ignored.
func CourseImpact(course domain.Course, targetCompetencies []domain.Competency, assessments map[int64]domain.Assessment) Impact {
	byID := make(map[int64]domain.Competency, len(targetCompetencies))
	for _, comp := range targetCompetencies {
		byID[comp.ID] = comp
	}

	var impact Impact
	for _, id := range course.CompetencyIDs {
		comp, ok := byID[id]
		if !ok {
			continue
		}
		if a, ok := assessments[id]; ok && a.Score >= MasteryThreshold {
			impact.Mastered = append(impact.Mastered, comp)
		} else {
			impact.Addressed = append(impact.Addressed, comp)
		}
	}
	return impact
}
