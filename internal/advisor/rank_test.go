package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marioghenriques/carreira/internal/domain"
)

func gapSet(ids ...int64) map[int64]struct{} {
	gaps := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		gaps[id] = struct{}{}
	}
	return gaps
}

func TestRelevanceScore(t *testing.T) {
	gaps := gapSet(1, 2)

	assert.Equal(t, 2, RelevanceScore(domain.Course{CompetencyIDs: []int64{1, 2}}, gaps))
	assert.Equal(t, 1, RelevanceScore(domain.Course{CompetencyIDs: []int64{2, 9}}, gaps))
	assert.Equal(t, 0, RelevanceScore(domain.Course{CompetencyIDs: []int64{9}}, gaps))
	assert.Equal(t, 0, RelevanceScore(domain.Course{}, gaps))
}

func TestRankCourses_ByRelevance(t *testing.T) {
	gaps := gapSet(1, 2)
	courses := []domain.Course{
		{ID: 1, Name: "Curso X", CompetencyIDs: []int64{1}},
		{ID: 2, Name: "Curso Y", CompetencyIDs: []int64{1, 2}},
		{ID: 3, Name: "Curso Z", CompetencyIDs: []int64{9}},
	}

	ranked := RankCourses(courses, gaps, "")

	require.Len(t, ranked, 3)
	assert.Equal(t, int64(2), ranked[0].Course.ID, "highest relevance first")
	assert.Equal(t, 2, ranked[0].Relevance)
	assert.Equal(t, int64(1), ranked[1].Course.ID)
	assert.Equal(t, 1, ranked[1].Relevance)
	assert.Equal(t, int64(3), ranked[2].Course.ID)
	assert.Equal(t, 0, ranked[2].Relevance)
}

func TestRankCourses_QueryBreaksTies(t *testing.T) {
	gaps := gapSet(1)
	courses := []domain.Course{
		{ID: 1, Name: "Gestao", CompetencyIDs: []int64{1}},
		{ID: 2, Name: "Lideranca", CompetencyIDs: []int64{1}},
	}

	ranked := RankCourses(courses, gaps, "lideranca")

	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].Course.ID, "equal relevance resolved by match score")
}

func TestRankCourses_StableForEqualKeys(t *testing.T) {
	gaps := gapSet(1)
	courses := []domain.Course{
		{ID: 5, CompetencyIDs: []int64{1}},
		{ID: 3, CompetencyIDs: []int64{1}},
	}

	ranked := RankCourses(courses, gaps, "")

	require.Len(t, ranked, 2)
	assert.Equal(t, int64(5), ranked[0].Course.ID, "listing order kept on full tie")
}

func TestRecommended_DropsZeroRelevance(t *testing.T) {
	ranked := []RankedCourse{
		{Course: domain.Course{ID: 1}, Relevance: 2},
		{Course: domain.Course{ID: 2}, Relevance: 0},
		{Course: domain.Course{ID: 3}, Relevance: 1},
	}

	recommended := Recommended(ranked)

	require.Len(t, recommended, 2)
	assert.Equal(t, int64(1), recommended[0].Course.ID)
	assert.Equal(t, int64(3), recommended[1].Course.ID)
}

func TestRecommended_Empty(t *testing.T) {
	assert.Empty(t, Recommended(nil))
	assert.Empty(t, Recommended([]RankedCourse{{Relevance: 0}}))
}
