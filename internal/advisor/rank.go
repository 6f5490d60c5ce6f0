package advisor

import (
	"sort"

	"github.com/marioghenriques/carreira/internal/domain"
)

// RankedCourse pairs a course with its recommendation scores.
type RankedCourse struct {
	Course domain.Course `json:"course"`

	// Relevance is the number of the course's competency ids that are
	// in the user's gap set.
	Relevance int `json:"relevance"`

	// Match is the textual match score for the active search query,
	// zero when no query is active.
	Match int `json:"match"`
}

// RelevanceScore counts how many of a course's competency ids are in
// the gap set. Ids that are not gaps (including dangling ids) simply
// don't count.
func RelevanceScore(course domain.Course, gaps map[int64]struct{}) int {
	score := 0
	for _, id := range course.CompetencyIDs {
		if _, ok := gaps[id]; ok {
			score++
		}
	}
	return score
}

// RankCourses scores each course against the gap set and query and
// sorts by relevance descending, then match score descending. Courses
// with equal keys keep their listing order.
func RankCourses(courses []domain.Course, gaps map[int64]struct{}, query string) []RankedCourse {
	ranked := make([]RankedCourse, 0, len(courses))
	for _, course := range courses {
		ranked = append(ranked, RankedCourse{
			Course:    course,
			Relevance: RelevanceScore(course, gaps),
			Match:     MatchScore(course, query),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Relevance != ranked[j].Relevance {
			return ranked[i].Relevance > ranked[j].Relevance
		}
		return ranked[i].Match > ranked[j].Match
	})

	return ranked
}

// Recommended keeps only courses that address at least one gap.
func Recommended(ranked []RankedCourse) []RankedCourse {
	recommended := make([]RankedCourse, 0, len(ranked))
	for _, rc := range ranked {
		if rc.Relevance > 0 {
			recommended = append(recommended, rc)
		}
	}
	return recommended
}
