package histogram

import (
	"math"
	"sort"

	"github.com/crimson-sun/winnow/internal/model"
)

// Bin is one projected histogram bar.
type Bin struct {
	X0      float64
	X1      float64
	Count   int
	Density float64
}

// Layout is a histogram projected onto a canvas.
type Layout struct {
	Width  float64
	Height float64
	X      Scale // score -> px, left to right
	Y      Scale // count -> px, bottom (height) to top (0)
	Bins   []Bin
}

// Project turns a trainer histogram into a renderable layout. The x domain is
// always widened to include zero so the no-signal boundary stays visible.
func Project(h model.Histogram, width, height float64) Layout {
	l := Layout{Width: width, Height: height}

	lo, hi := 0.0, 0.0
	if len(h.BinEdges) > 0 {
		lo = min(h.BinEdges[0], 0)
		hi = max(h.BinEdges[len(h.BinEdges)-1], 0)
	}
	l.X = Scale{Domain: [2]float64{lo, hi}, Range: [2]float64{0, width}}

	total, maxCount := 0, 0
	for _, c := range h.Counts {
		total += c
		maxCount = max(maxCount, c)
	}
	l.Y = Scale{Domain: [2]float64{0, float64(maxCount)}, Range: [2]float64{height, 0}}

	n := len(h.Counts)
	if len(h.BinEdges) != n+1 {
		return l
	}
	l.Bins = make([]Bin, n)
	for i, c := range h.Counts {
		b := Bin{X0: h.BinEdges[i], X1: h.BinEdges[i+1], Count: c}
		if total > 0 {
			b.Density = float64(c) / float64(total)
		}
		l.Bins[i] = b
	}
	return l
}

// BinIndex returns the bin containing score. Bins are half-open [x0, x1)
// except the last, which also holds its upper edge. ok is false for NaN and
// for scores outside the histogram.
func (l Layout) BinIndex(score float64) (int, bool) {
	n := len(l.Bins)
	if n == 0 || math.IsNaN(score) {
		return 0, false
	}
	if score < l.Bins[0].X0 || score > l.Bins[n-1].X1 {
		return 0, false
	}
	if score == l.Bins[n-1].X1 {
		return n - 1, true
	}
	// First bin whose upper edge is strictly greater than score.
	i := sort.Search(n, func(i int) bool { return l.Bins[i].X1 > score })
	if i == n {
		return n - 1, true
	}
	return i, true
}

// Tally is the per-bin category breakdown of scored items.
type Tally struct {
	Confirmed    int
	AutoSelected int
	Rejected     int
	AutoRejected int
	Unsure       int
}

// Get returns the tally for cat.
func (t Tally) Get(cat model.Category) int {
	switch cat {
	case model.CategoryConfirmed:
		return t.Confirmed
	case model.CategoryAutoSelected:
		return t.AutoSelected
	case model.CategoryRejected:
		return t.Rejected
	case model.CategoryAutoRejected:
		return t.AutoRejected
	default:
		return t.Unsure
	}
}

func (t *Tally) add(cat model.Category) {
	switch cat {
	case model.CategoryConfirmed:
		t.Confirmed++
	case model.CategoryAutoSelected:
		t.AutoSelected++
	case model.CategoryRejected:
		t.Rejected++
	case model.CategoryAutoRejected:
		t.AutoRejected++
	default:
		t.Unsure++
	}
}

// Total sums the tally.
func (t Tally) Total() int {
	return t.Confirmed + t.AutoSelected + t.Rejected + t.AutoRejected + t.Unsure
}

// Breakdown assigns every scored item to its bin and tallies its category.
// The result has one entry per layout bin.
func Breakdown(l Layout, scores model.Scores, sel model.Selection) []Tally {
	out := make([]Tally, len(l.Bins))
	for id, score := range scores {
		i, ok := l.BinIndex(score)
		if !ok {
			continue
		}
		tag, tagged := sel.Get(id)
		out[i].add(model.Categorize(tag, tagged))
	}
	return out
}

// Segment is one stacked rectangle inside a bar.
type Segment struct {
	Bin      int
	Category model.Category
	Count    int
	X        float64
	Y        float64 // top edge in px
	Width    float64
	Height   float64
}

// Segments stacks each bin's tallies bottom to top in model.StackOrder. A
// segment's height is its share of the bin tally scaled to the bar height.
func Segments(l Layout, tallies []Tally) []Segment {
	var out []Segment
	for i, b := range l.Bins {
		if i >= len(tallies) {
			break
		}
		t := tallies[i]
		total := t.Total()
		if total == 0 || b.Count == 0 {
			continue
		}
		x0, x1 := l.X.Map(b.X0), l.X.Map(b.X1)
		barHeight := l.Height - l.Y.Map(float64(b.Count))
		bottom := l.Height
		for _, cat := range model.StackOrder {
			n := t.Get(cat)
			if n == 0 {
				continue
			}
			h := float64(n) / float64(total) * barHeight
			bottom -= h
			out = append(out, Segment{
				Bin:      i,
				Category: cat,
				Count:    n,
				X:        x0,
				Y:        bottom,
				Width:    x1 - x0,
				Height:   h,
			})
		}
	}
	return out
}
