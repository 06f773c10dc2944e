package winnow

import (
	"context"
	"fmt"

	"github.com/crimson-sun/winnow/internal/config"
	"github.com/crimson-sun/winnow/internal/engine/preview"
	"github.com/crimson-sun/winnow/internal/model"
	"github.com/crimson-sun/winnow/internal/pipeline"
	"github.com/crimson-sun/winnow/internal/session"

	_ "github.com/crimson-sun/winnow/internal/connector/classifierapi"
)

// Counts is the five-way split of the item universe.
type Counts struct {
	Selected     int `json:"selected"`      // selected by click
	SelectedAuto int `json:"selected_auto"` // selected by threshold or prediction
	Rejected     int `json:"rejected"`      // rejected by click
	RejectedAuto int `json:"rejected_auto"` // rejected by threshold or prediction
	Unsure       int `json:"unsure"`
}

// Thresholds are the select and reject score cutoffs.
type Thresholds struct {
	Select float64 `json:"select"`
	Reject float64 `json:"reject"`
}

// Marginal is an item near a threshold.
type Marginal struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
}

// Status summarizes the session.
type Status struct {
	Stage        string      `json:"stage"`
	Iteration    int         `json:"iteration"`
	Items        int         `json:"items"`
	Counts       Counts      `json:"counts"`
	Thresholds   *Thresholds `json:"thresholds,omitempty"`
	ActiveCommit int         `json:"active_commit"`
	Converging   bool        `json:"converging"`
	Loading      bool        `json:"loading"`
}

// Outcome is the result of a retrain request: "applied", "insufficient",
// "stale" or "failed".
type Outcome string

// Session is a labeling session. Safe for concurrent use.
type Session struct {
	p     *pipeline.Pipeline
	store *session.Store
}

// New creates a Session. No network calls are made until Initialize.
func New(opts ...Option) (*Session, error) {
	cfg := config.Default()
	var ex extras
	for _, opt := range opts {
		opt(&cfg, &ex)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("winnow: %w", err)
	}
	p, err := pipeline.New(cfg, pipeline.WithLogger(ex.logger))
	if err != nil {
		return nil, fmt.Errorf("winnow: %w", err)
	}
	return &Session{p: p, store: p.Store()}, nil
}

// ID returns the session identifier attached to logs and events.
func (s *Session) ID() string { return s.store.ID() }

// Initialize loads the item universe and diverse suggestions, resetting
// any previous state.
func (s *Session) Initialize(ctx context.Context) error {
	return s.store.Initialize(ctx)
}

// Select tags id as selected by click.
func (s *Session) Select(id int) error {
	return s.store.SetSelection(id, model.Selected, model.SourceClick)
}

// Reject tags id as rejected by click.
func (s *Session) Reject(id int) error {
	return s.store.SetSelection(id, model.Rejected, model.SourceClick)
}

// Clear returns id to unsure.
func (s *Session) Clear(id int) { s.store.RemoveSelection(id) }

// Focus moves the focused item. It reports false for an unknown id.
func (s *Session) Focus(id int) bool { return s.store.SetFocus(id) }

// Code returns the source text of an item.
func (s *Session) Code(ctx context.Context, id int) (string, error) {
	c, err := s.store.Content(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Code, nil
}

// Retrain sends the current labels to the classifier. It needs at least
// three selected and three rejected items.
func (s *Session) Retrain(ctx context.Context) (Outcome, error) {
	o, err := s.store.RequestRetrain(ctx)
	return Outcome(o), err
}

// SetThresholds sets the select and reject cutoffs.
func (s *Session) SetThresholds(selectAt, rejectAt float64) error {
	if rejectAt >= selectAt {
		return fmt.Errorf("winnow: reject threshold %v must be below select %v", rejectAt, selectAt)
	}
	s.store.UpdateThresholds(selectAt, rejectAt)
	return nil
}

// Preview returns the counts that applying t would produce. Click tags are
// kept and unscored items count as unsure.
func (s *Session) Preview(t Thresholds) Counts {
	snap := s.store.Snapshot()
	return toCounts(preview.Project(snap.IDs, snap.Selection, snap.Scores,
		model.Thresholds{Select: t.Select, Reject: t.Reject}))
}

// Apply auto-tags unsure items past the thresholds, records a commit and
// retrains. The commit id is returned even when retraining fails.
func (s *Session) Apply(ctx context.Context) (int, Outcome, error) {
	c, o, err := s.store.ApplyThresholds(ctx)
	return c.ID, Outcome(o), err
}

// Commit records the current labels as a manual commit.
func (s *Session) Commit() int { return s.store.CommitManual().ID }

// Restore makes commit id active again. It reports false for an unknown id.
func (s *Session) Restore(id int) bool { return s.store.RestoreCommit(id) }

// Boundary returns the items past each threshold closest to it.
func (s *Session) Boundary() (reject, sel []Marginal) {
	r := s.store.Boundary()
	return toMarginal(r.RejectBelow), toMarginal(r.SelectAbove)
}

// Status summarizes the session.
func (s *Session) Status() Status {
	snap := s.store.Snapshot()
	st := Status{
		Stage:        string(snap.Stage),
		Iteration:    snap.Iteration,
		Items:        len(snap.IDs),
		Counts:       toCounts(session.CountsOf(snap, snap.Thresholds).Current),
		ActiveCommit: snap.ActiveCommit,
		Converging:   session.ConvergingOf(snap),
		Loading:      snap.Loading,
	}
	if snap.Histogram != nil {
		st.Thresholds = &Thresholds{Select: snap.Thresholds.Select, Reject: snap.Thresholds.Reject}
	}
	return st
}

// Close flushes outputs and releases the content cache.
func (s *Session) Close() error { return s.p.Close() }
