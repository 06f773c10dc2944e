// Package convergence measures how stable predictions are between training
// iterations.
package convergence

import "github.com/crimson-sun/winnow/internal/model"

const (
	// MaxHistory is the number of flip entries retained.
	MaxHistory = 10
	// MinEntries is the history length needed before convergence is reported.
	MinEntries = 3
	// Threshold is the flip rate below which predictions count as stable.
	Threshold = 0.10
)

// Predict returns the predicted class per item: selected when the score is
// positive, rejected otherwise.
func Predict(scores model.Scores) map[int]model.SelectionState {
	out := make(map[int]model.SelectionState, len(scores))
	for id, s := range scores {
		if s > 0 {
			out[id] = model.Selected
		} else {
			out[id] = model.Rejected
		}
	}
	return out
}

// Count tallies predicted classes.
func Count(pred map[int]model.SelectionState) model.PredictionCounts {
	var c model.PredictionCounts
	for _, st := range pred {
		if st == model.Selected {
			c.Selected++
		} else {
			c.Rejected++
		}
	}
	return c
}

// Compare counts items whose prediction changed between prev and next,
// considering only items present in both. Rate is 0 without overlap.
func Compare(prev, next map[int]model.SelectionState) (flips, overlap int, rate float64) {
	for id, st := range next {
		old, ok := prev[id]
		if !ok {
			continue
		}
		overlap++
		if old != st {
			flips++
		}
	}
	if overlap > 0 {
		rate = float64(flips) / float64(overlap)
	}
	return flips, overlap, rate
}

// Entry builds the history entry for an iteration.
func Entry(iteration int, prev, next map[int]model.SelectionState) model.FlipEntry {
	flips, overlap, rate := Compare(prev, next)
	return model.FlipEntry{
		Iteration:   iteration,
		FlipRate:    rate,
		Flips:       flips,
		Overlap:     overlap,
		Predictions: Count(next),
	}
}

// Append returns a new history with e added, keeping the last MaxHistory
// entries. The input slice is not modified.
func Append(history []model.FlipEntry, e model.FlipEntry) []model.FlipEntry {
	start := 0
	if n := len(history) + 1; n > MaxHistory {
		start = n - MaxHistory
	}
	out := make([]model.FlipEntry, 0, min(len(history)+1, MaxHistory))
	out = append(out, history[start:]...)
	return append(out, e)
}

// Converging reports whether at least MinEntries iterations exist and the
// latest flip rate is below Threshold. Advisory only.
func Converging(history []model.FlipEntry) bool {
	if len(history) < MinEntries {
		return false
	}
	return history[len(history)-1].FlipRate < Threshold
}
