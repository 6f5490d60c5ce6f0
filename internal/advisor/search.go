package advisor

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/marioghenriques/carreira/internal/domain"
)

// Match score weights per matched field.
const (
	matchWeightName        = 10
	matchWeightDescription = 5
	matchWeightCategory    = 3
)

// fold prepares a string for comparison: NFC normalization so
// differently-composed accented text compares equal, then lower case.
// The catalog is Portuguese; composition differences are common when
// text arrives from different input sources.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Matches reports whether a course matches a free-text query: the query
// is a case-insensitive substring of the course name, description or
// category. The empty query matches everything.
func Matches(course domain.Course, query string) bool {
	if query == "" {
		return true
	}
	q := fold(query)
	return strings.Contains(fold(course.Name), q) ||
		strings.Contains(fold(course.Description), q) ||
		strings.Contains(fold(course.Category), q)
}

// MatchScore weighs how strongly a course matches a query: name hits
// count most, then description, then category. Zero for the empty query.
func MatchScore(course domain.Course, query string) int {
	if query == "" {
		return 0
	}
	q := fold(query)

	score := 0
	if strings.Contains(fold(course.Name), q) {
		score += matchWeightName
	}
	if strings.Contains(fold(course.Description), q) {
		score += matchWeightDescription
	}
	if strings.Contains(fold(course.Category), q) {
		score += matchWeightCategory
	}
	return score
}

// Filter narrows courses by the free-text query and an optional exact
// category filter (empty category means no filter). Listing order is
// preserved.
func Filter(courses []domain.Course, query, category string) []domain.Course {
	filtered := make([]domain.Course, 0, len(courses))
	for _, course := range courses {
		if !Matches(course, query) {
			continue
		}
		if category != "" && course.Category != category {
			continue
		}
		filtered = append(filtered, course)
	}
	return filtered
}
