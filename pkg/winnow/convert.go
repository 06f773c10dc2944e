package winnow

import (
	"github.com/crimson-sun/winnow/internal/engine/boundary"
	"github.com/crimson-sun/winnow/internal/model"
)

func toCounts(c model.Counts) Counts {
	return Counts{
		Selected:     c.Selected,
		SelectedAuto: c.SelectedAuto,
		Rejected:     c.Rejected,
		RejectedAuto: c.RejectedAuto,
		Unsure:       c.Unsure,
	}
}

func toMarginal(rs []boundary.Ranked) []Marginal {
	out := make([]Marginal, len(rs))
	for i, r := range rs {
		out[i] = Marginal{ID: r.ID, Score: r.Score}
	}
	return out
}
