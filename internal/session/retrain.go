package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/crimson-sun/winnow/internal/engine/convergence"
	"github.com/crimson-sun/winnow/internal/engine/preview"
	"github.com/crimson-sun/winnow/internal/model"
)

// RetrainOutcome says what a retrain request did.
type RetrainOutcome string

const (
	// OutcomeApplied means the response replaced the score data.
	OutcomeApplied RetrainOutcome = "applied"
	// OutcomeInsufficient means a side had fewer than MinPerClass labels.
	OutcomeInsufficient RetrainOutcome = "insufficient"
	// OutcomeStale means a newer request was issued before this one returned.
	OutcomeStale RetrainOutcome = "stale"
	// OutcomeFailed means the backend call failed.
	OutcomeFailed RetrainOutcome = "failed"
)

// Threshold placement on the first histogram, as fractions of the score range.
const (
	initialSelectFrac = 0.7
	initialRejectFrac = 0.3
)

// TrainingRequest builds the weighted request from click and threshold
// sourced labels. Predicted tags never train, and neither do ids outside
// the universe.
func TrainingRequest(snap Snapshot) model.TrainingRequest {
	req := model.TrainingRequest{AllIDs: snap.IDs}
	known := make(map[int]struct{}, len(snap.IDs))
	for _, id := range snap.IDs {
		known[id] = struct{}{}
	}
	snap.Selection.Each(func(id int, tag model.Tag) {
		if !tag.Source.Trainable() {
			return
		}
		if _, ok := known[id]; !ok {
			return
		}
		item := model.WeightedItem{ID: id, Source: tag.Source}
		switch tag.State {
		case model.Selected:
			req.Selected = append(req.Selected, item)
		case model.Rejected:
			req.Rejected = append(req.Rejected, item)
		}
	})
	byID := func(items []model.WeightedItem) func(i, j int) bool {
		return func(i, j int) bool { return items[i].ID < items[j].ID }
	}
	sort.Slice(req.Selected, byID(req.Selected))
	sort.Slice(req.Rejected, byID(req.Rejected))
	return req
}

// RequestRetrain trains on the current labels and replaces the score data.
// Each request takes a new epoch; a response that returns after a newer
// request was issued is dropped and leaves loading to the newer request.
func (s *Store) RequestRetrain(ctx context.Context) (RetrainOutcome, error) {
	s.mu.Lock()
	if !s.snap.Initialized {
		s.mu.Unlock()
		return OutcomeFailed, ErrNotInitialized
	}
	req := TrainingRequest(s.snap)
	if len(req.Selected) < MinPerClass || len(req.Rejected) < MinPerClass {
		s.mu.Unlock()
		s.metrics.Retrain(string(OutcomeInsufficient))
		s.logger.Debug("retrain skipped, not enough labels",
			"selected", len(req.Selected), "rejected", len(req.Rejected), "min", MinPerClass)
		return OutcomeInsufficient, nil
	}
	s.issued++
	epoch := s.issued
	next := s.snap
	next.Loading = true
	s.snap = next
	s.mu.Unlock()

	s.logger.Debug("retrain requested", "epoch", epoch,
		"selected", len(req.Selected), "rejected", len(req.Rejected))
	start := time.Now()
	res, err := s.backend.FetchScores(ctx, req)
	s.metrics.ObserveTraining(time.Since(start))

	s.mu.Lock()
	if latest := s.issued; epoch != latest {
		s.mu.Unlock()
		s.metrics.Retrain(string(OutcomeStale))
		s.logger.Info("stale retrain response dropped", "epoch", epoch, "latest", latest)
		return OutcomeStale, nil
	}
	if err != nil {
		next := s.snap
		next.Loading = false
		s.snap = next
		s.mu.Unlock()
		s.metrics.Retrain(string(OutcomeFailed))
		s.logger.Error("retrain failed", "epoch", epoch, "error", err)
		return OutcomeFailed, fmt.Errorf("%w: %w", ErrTraining, err)
	}
	snap, entry := s.applyResult(s.snap, res)
	s.snap = snap
	s.mu.Unlock()

	s.metrics.Retrain(string(OutcomeApplied))
	s.metrics.Iteration(entry)
	s.logger.Info("retrain applied", "epoch", epoch, "iteration", entry.Iteration,
		"flip_rate", entry.FlipRate, "scored", len(res.Scores))
	s.emit(ctx, s.iterationEvent(snap, entry))
	return OutcomeApplied, nil
}

// applyResult replaces the score data wholesale and records the iteration.
func (s *Store) applyResult(snap Snapshot, res model.TrainingResult) (Snapshot, model.FlipEntry) {
	firstHistogram := snap.Histogram == nil

	hist := res.Histogram
	snap.Scores = res.Scores
	snap.Histogram = &hist
	snap.Statistics = res.Statistics
	snap.CommitteeVotes = res.CommitteeVotes

	pred := convergence.Predict(res.Scores)
	entry := convergence.Entry(snap.Iteration+1, snap.Predictions, pred)
	snap.Predictions = pred
	snap.Iteration = entry.Iteration
	snap.FlipHistory = convergence.Append(snap.FlipHistory, entry)

	if firstHistogram {
		snap.Thresholds = initialThresholds(res)
	}
	snap.Stage = model.StageLearn
	snap.Loading = false
	return snap, entry
}

func initialThresholds(res model.TrainingResult) model.Thresholds {
	lo, hi, ok := res.Scores.Range()
	if !ok {
		lo, hi = res.Statistics.Min, res.Statistics.Max
	}
	span := hi - lo
	if span == 0 {
		return model.Thresholds{Select: 0.5, Reject: -0.5}
	}
	return model.Thresholds{
		Select: lo + initialSelectFrac*span,
		Reject: lo + initialRejectFrac*span,
	}
}

// ApplyThresholds auto-tags every scored, non-click item from the committed
// thresholds, records a threshold commit and retrains on the result. Items
// auto-tagged earlier that now sit inside the unsure band revert to unsure.
func (s *Store) ApplyThresholds(ctx context.Context) (model.Commit, RetrainOutcome, error) {
	s.mu.Lock()
	if !s.snap.Initialized {
		s.mu.Unlock()
		return model.Commit{}, OutcomeFailed, ErrNotInitialized
	}
	next := s.snap
	next.Selection = autoTag(next.Selection, next.Scores, next.Thresholds)
	commit := s.newCommit(len(next.Commits), model.CommitThreshold, next.Selection, next.IDs)
	next = next.withCommit(commit)
	next.Stage = model.StageApply
	s.snap = next
	s.mu.Unlock()

	s.logger.Info("thresholds applied", "commit", commit.ID,
		"select", next.Thresholds.Select, "reject", next.Thresholds.Reject,
		"selected_auto", commit.Counts.SelectedAuto, "rejected_auto", commit.Counts.RejectedAuto)
	s.metrics.Commit(commit)
	s.emit(ctx, s.commitEvent(model.EventCommit, next, commit))

	outcome, err := s.RequestRetrain(ctx)
	return commit, outcome, err
}

func autoTag(sel model.Selection, scores model.Scores, t model.Thresholds) model.Selection {
	b := model.NewBuilder(sel)
	for id, score := range scores {
		tag, ok := sel.Get(id)
		if ok && tag.Source == model.SourceClick {
			continue
		}
		switch {
		case score >= t.Select:
			b.Set(id, model.Selected, model.SourceThreshold)
		case score <= t.Reject:
			b.Set(id, model.Rejected, model.SourceThreshold)
		case ok && tag.Source == model.SourceThreshold:
			b.Delete(id)
		}
	}
	return b.Selection()
}

func (s *Store) iterationEvent(snap Snapshot, e model.FlipEntry) model.SessionEvent {
	counts := preview.Tally(snap.IDs, snap.Selection)
	t := snap.Thresholds
	return model.SessionEvent{
		Kind:       model.EventIteration,
		SessionID:  s.id,
		Timestamp:  s.now(),
		Stage:      snap.Stage,
		CommitID:   snap.ActiveCommit,
		Counts:     &counts,
		Iteration:  e.Iteration,
		FlipRate:   e.FlipRate,
		Converging: convergence.Converging(snap.FlipHistory),
		Thresholds: &t,
	}
}
