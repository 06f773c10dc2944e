package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crimson-sun/winnow/internal/model"
)

func TestRankOrdersClosestToBoundaryFirst(t *testing.T) {
	in := Input{
		IDs:        []int{1, 2, 3, 4, 5, 6, 7},
		Scores:     model.Scores{1: 0.9, 2: 0.6, 3: 0.1, 4: -0.6, 5: -1.2, 6: 0.5, 7: -0.5},
		Thresholds: model.Thresholds{Select: 0.5, Reject: -0.5},
	}
	r := Rank(in, Result{})

	assert.Equal(t, []Ranked{{7, -0.5}, {4, -0.6}, {5, -1.2}}, r.RejectBelow)
	assert.Equal(t, []Ranked{{6, 0.5}, {2, 0.6}, {1, 0.9}}, r.SelectAbove)
}

func TestRankTiesBreakOnID(t *testing.T) {
	in := Input{
		IDs:        []int{9, 3, 5},
		Scores:     model.Scores{9: 1, 3: 1, 5: 1},
		Thresholds: model.Thresholds{Select: 0.5, Reject: -0.5},
	}
	r := Rank(in, Result{})
	assert.Equal(t, []Ranked{{3, 1}, {5, 1}, {9, 1}}, r.SelectAbove)
	assert.Empty(t, r.RejectBelow)
}

func TestRankKeepsPreviousWithoutScores(t *testing.T) {
	prev := Result{SelectAbove: []Ranked{{1, 0.8}}}
	r := Rank(Input{IDs: []int{1, 2}}, prev)
	assert.Equal(t, prev, r)
}

func TestRankerRemembersLastResult(t *testing.T) {
	var rk Ranker
	first := rk.Rank(Input{
		IDs:        []int{1},
		Scores:     model.Scores{1: -1},
		Thresholds: model.Thresholds{Select: 0.5, Reject: -0.5},
	})
	assert.Len(t, first.RejectBelow, 1)

	again := rk.Rank(Input{IDs: []int{1}})
	assert.Equal(t, first, again)
}
