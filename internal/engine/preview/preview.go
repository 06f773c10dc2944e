package preview

import "github.com/crimson-sun/winnow/internal/model"

// Tally splits the universe into the five categories from committed
// state. Counting walks the universe, so the result always sums to len(ids).
func Tally(ids []int, sel model.Selection) model.Counts {
	var c model.Counts
	for _, id := range ids {
		tag, ok := sel.Get(id)
		c.Add(model.Categorize(tag, ok))
	}
	return c
}

// Input is everything the preview needs from a store snapshot.
type Input struct {
	IDs        []int
	Selection  model.Selection
	Scores     model.Scores
	Thresholds model.Thresholds // live values while dragging
	Dragging   bool
}

// Result holds the committed counts and, while a drag is in progress, the
// counts that applying the dragged thresholds would produce.
type Result struct {
	Current model.Counts
	Preview *model.Counts
}

// Compute returns the current counts and the drag preview.
func Compute(in Input) Result {
	r := Result{Current: Tally(in.IDs, in.Selection)}
	if !in.Dragging {
		return r
	}
	p := Project(in.IDs, in.Selection, in.Scores, in.Thresholds)
	r.Preview = &p
	return r
}

// Project counts what a threshold pass at t would produce. Click tags are
// kept; every other scored item is classified from t alone, ignoring any
// auto tag it carries today.
func Project(ids []int, sel model.Selection, scores model.Scores, t model.Thresholds) model.Counts {
	var c model.Counts
	for _, id := range ids {
		tag, ok := sel.Get(id)
		if ok && tag.Source == model.SourceClick {
			c.Add(model.Categorize(tag, ok))
			continue
		}
		score, scored := scores[id]
		switch {
		case !scored:
			c.Unsure++
		case score >= t.Select:
			c.SelectedAuto++
		case score <= t.Reject:
			c.RejectedAuto++
		default:
			c.Unsure++
		}
	}
	return c
}
