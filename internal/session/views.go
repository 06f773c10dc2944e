package session

import (
	"github.com/crimson-sun/winnow/internal/engine/boundary"
	"github.com/crimson-sun/winnow/internal/engine/convergence"
	"github.com/crimson-sun/winnow/internal/engine/histogram"
	"github.com/crimson-sun/winnow/internal/engine/preview"
	"github.com/crimson-sun/winnow/internal/model"
)

// Counts returns the committed category counts and, while dragging, the
// preview at the stored thresholds.
func (s *Store) Counts() preview.Result {
	snap := s.Snapshot()
	return CountsOf(snap, snap.Thresholds)
}

// CountsAt is Counts with the preview taken at live drag thresholds.
func (s *Store) CountsAt(live model.Thresholds) preview.Result {
	return CountsOf(s.Snapshot(), live)
}

// CountsOf projects counts from a snapshot.
func CountsOf(snap Snapshot, live model.Thresholds) preview.Result {
	return preview.Compute(preview.Input{
		IDs:        snap.IDs,
		Selection:  snap.Selection,
		Scores:     snap.Scores,
		Thresholds: live,
		Dragging:   snap.Dragging,
	})
}

// Boundary ranks the marginal items at the stored thresholds. Before any
// scores exist it returns the last ranking.
func (s *Store) Boundary() boundary.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranker.Rank(boundary.Input{
		IDs:        s.snap.IDs,
		Scores:     s.snap.Scores,
		Thresholds: s.snap.Thresholds,
	})
}

// Chart is the histogram of the latest scores on a width x height canvas.
type Chart struct {
	Layout   histogram.Layout
	Tallies  []histogram.Tally
	Segments []histogram.Segment
}

// Chart projects the latest histogram. ok is false before the first retrain.
func (s *Store) Chart(width, height float64) (Chart, bool) {
	return ChartOf(s.Snapshot(), width, height)
}

// ChartOf projects a snapshot's histogram.
func ChartOf(snap Snapshot, width, height float64) (Chart, bool) {
	if snap.Histogram == nil {
		return Chart{}, false
	}
	l := histogram.Project(*snap.Histogram, width, height)
	tallies := histogram.Breakdown(l, snap.Scores, snap.Selection)
	return Chart{Layout: l, Tallies: tallies, Segments: histogram.Segments(l, tallies)}, true
}

// Converging reports the advisory convergence signal.
func (s *Store) Converging() bool {
	return ConvergingOf(s.Snapshot())
}

// ConvergingOf reports the convergence signal of a snapshot.
func ConvergingOf(snap Snapshot) bool {
	return convergence.Converging(snap.FlipHistory)
}
