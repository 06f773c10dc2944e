package boundary

import (
	"sort"

	"github.com/crimson-sun/winnow/internal/model"
)

// Ranked is an item with its current score.
type Ranked struct {
	ID    int
	Score float64
}

// Result holds the items past each threshold, closest to the boundary first.
type Result struct {
	RejectBelow []Ranked // score <= reject, descending
	SelectAbove []Ranked // score >= select, ascending
}

// Input is the ranker's view of a store snapshot.
type Input struct {
	IDs        []int
	Scores     model.Scores
	Thresholds model.Thresholds
}

// Rank lists the most marginal auto-taggable items on each side. With no
// score data yet it returns prev unchanged so a pending retrain does not
// blank the review lists.
func Rank(in Input, prev Result) Result {
	if len(in.Scores) == 0 {
		return prev
	}

	var out Result
	for _, id := range in.IDs {
		score, ok := in.Scores[id]
		if !ok {
			continue
		}
		if score <= in.Thresholds.Reject {
			out.RejectBelow = append(out.RejectBelow, Ranked{ID: id, Score: score})
		}
		if score >= in.Thresholds.Select {
			out.SelectAbove = append(out.SelectAbove, Ranked{ID: id, Score: score})
		}
	}

	sort.Slice(out.RejectBelow, func(i, j int) bool {
		a, b := out.RejectBelow[i], out.RejectBelow[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ID < b.ID
	})
	sort.Slice(out.SelectAbove, func(i, j int) bool {
		a, b := out.SelectAbove[i], out.SelectAbove[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return a.ID < b.ID
	})
	return out
}

// Ranker keeps the last result so callers get the stable placeholder
// behaviour without threading prev through themselves.
type Ranker struct {
	last Result
}

// Rank ranks in and remembers the result.
func (r *Ranker) Rank(in Input) Result {
	r.last = Rank(in, r.last)
	return r.last
}
