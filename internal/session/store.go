// Package session holds the labeling session state machine: selection
// state, classifier output, thresholds, the commit log and the flip history.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/winnow/internal/cache"
	"github.com/crimson-sun/winnow/internal/connector"
	"github.com/crimson-sun/winnow/internal/engine/boundary"
	"github.com/crimson-sun/winnow/internal/engine/preview"
	"github.com/crimson-sun/winnow/internal/logging"
	"github.com/crimson-sun/winnow/internal/metrics"
	"github.com/crimson-sun/winnow/internal/model"
	"github.com/crimson-sun/winnow/internal/output"
)

const (
	// DefaultDiverseCount is how many representative items seed a session.
	DefaultDiverseCount = 10
	// MinPerClass is the smallest trainable label set on each side.
	MinPerClass = 3
)

var (
	// ErrInitialization wraps universe and diversity fetch failures.
	ErrInitialization = errors.New("session initialization failed")
	// ErrTraining wraps scoring failures.
	ErrTraining = errors.New("training failed")
	// ErrNotInitialized is returned by operations that need the item universe.
	ErrNotInitialized = errors.New("session not initialized")
	// ErrInvalidTag rejects an unknown selection state or source.
	ErrInvalidTag = errors.New("invalid selection tag")
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the base logger. The store adds session_id to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithOutput sets where session events are written.
func WithOutput(o output.Output) Option {
	return func(s *Store) { s.out = o }
}

// WithMetrics sets the metric collectors.
func WithMetrics(m *metrics.Session) Option {
	return func(s *Store) { s.metrics = m }
}

// WithContentCache serves item content through c instead of the backend.
func WithContentCache(c *cache.Content) Option {
	return func(s *Store) { s.content = c }
}

// WithDiverseCount sets how many diverse items Initialize requests.
func WithDiverseCount(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.diverseCount = n
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(s *Store) { s.id = id }
}

// WithClock replaces time.Now for commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the single owner of session state. Readers get immutable
// snapshots; writers swap in a new snapshot under mu. Backend calls run
// without holding mu.
type Store struct {
	backend      connector.Backend
	content      *cache.Content
	out          output.Output
	metrics      *metrics.Session
	logger       *slog.Logger
	id           string
	diverseCount int
	now          func() time.Time

	mu     sync.Mutex
	snap   Snapshot
	issued uint64 // latest retrain epoch handed out
	ranker boundary.Ranker
}

// NewStore creates an uninitialized session over backend with Commit 0 in place.
func NewStore(backend connector.Backend, opts ...Option) *Store {
	s := &Store{
		backend:      backend,
		out:          output.Discard{},
		diverseCount: DefaultDiverseCount,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = logging.NewSessionID()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewSession(nil)
	}
	s.logger = logging.ForSession(s.logger, s.id)

	snap := fresh()
	s.snap = snap.withCommit(s.newCommit(0, model.CommitInitial, snap.Selection, nil))
	return s
}

// ID returns the session id.
func (s *Store) ID() string { return s.id }

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Initialize loads the universe and a diverse starting subset, then resets
// the session to Commit 0. On failure the previous snapshot stays in place
// with loading cleared.
func (s *Store) Initialize(ctx context.Context) error {
	s.setLoading(true)

	universe, diverse, err := s.fetchStart(ctx)
	if err != nil {
		s.setLoading(false)
		s.logger.Error("session initialization failed", "error", err)
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	ids := universe.IDs()
	snap := fresh()
	snap.Initialized = true
	snap.Universe = universe
	snap.IDs = ids
	snap.Diverse = diverse
	switch {
	case len(diverse) > 0:
		snap.Focus, snap.HasFocus = diverse[0], true
	case len(ids) > 0:
		snap.Focus, snap.HasFocus = ids[0], true
	}
	commit := s.newCommit(0, model.CommitInitial, snap.Selection, ids)
	snap = snap.withCommit(commit)

	s.mu.Lock()
	s.snap = snap
	s.ranker = boundary.Ranker{}
	// Retrains issued against the previous session come back stale.
	s.issued++
	s.mu.Unlock()

	s.logger.Info("session initialized", "items", len(ids), "diverse", len(diverse))
	s.metrics.Commit(commit)
	s.emit(ctx, s.commitEvent(model.EventInitialized, snap, commit))
	return nil
}

func (s *Store) fetchStart(ctx context.Context) (model.Universe, []int, error) {
	universe, err := s.backend.FetchUniverse(ctx)
	if err != nil {
		return model.Universe{}, nil, fmt.Errorf("fetch universe: %w", err)
	}
	diverse, err := s.backend.FetchDiverse(ctx, universe.IDs(), s.diverseCount)
	if err != nil {
		return model.Universe{}, nil, fmt.Errorf("fetch diverse subset: %w", err)
	}
	return universe, diverse, nil
}

// SetSelection tags id, replacing any previous tag. It never retrains.
func (s *Store) SetSelection(id int, state model.SelectionState, source model.SelectionSource) error {
	if !state.Valid() || !source.Valid() {
		return fmt.Errorf("%w: %q/%q", ErrInvalidTag, state, source)
	}
	s.update(func(snap *Snapshot) {
		snap.Selection = snap.Selection.With(id, state, source)
	})
	s.logger.Debug("selection set", "id", id, "state", state, "source", source)
	return nil
}

// RemoveSelection returns id to unsure.
func (s *Store) RemoveSelection(id int) {
	s.update(func(snap *Snapshot) {
		snap.Selection = snap.Selection.Without(id)
	})
	s.logger.Debug("selection removed", "id", id)
}

// UpdateThresholds sets the committed thresholds. Ordering is kept by the
// drag controller; this setter stores what it is given.
func (s *Store) UpdateThresholds(selectAt, rejectAt float64) {
	s.update(func(snap *Snapshot) {
		snap.Thresholds = model.Thresholds{Select: selectAt, Reject: rejectAt}
	})
}

// SetDragging marks whether a threshold drag is in progress.
func (s *Store) SetDragging(dragging bool) {
	s.update(func(snap *Snapshot) { snap.Dragging = dragging })
}

// SetFocus moves the review focus to id. It reports false for ids outside
// the universe.
func (s *Store) SetFocus(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snap.Universe.Contains(id) {
		return false
	}
	next := s.snap
	next.Focus, next.HasFocus = id, true
	s.snap = next
	return true
}

// Content returns display content for id.
func (s *Store) Content(ctx context.Context, id int) (model.Content, error) {
	if s.content != nil {
		return s.content.Get(ctx, id)
	}
	return s.backend.FetchContent(ctx, id)
}

// update applies fn to a copy of the snapshot and publishes it.
func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap
	fn(&next)
	s.snap = next
}

func (s *Store) setLoading(v bool) {
	s.update(func(snap *Snapshot) { snap.Loading = v })
}

func (s *Store) newCommit(id int, typ model.CommitType, sel model.Selection, ids []int) model.Commit {
	return model.Commit{
		ID:        id,
		Type:      typ,
		Timestamp: s.now(),
		Selection: sel,
		Counts:    preview.Tally(ids, sel),
	}
}

func (s *Store) emit(ctx context.Context, ev model.SessionEvent) {
	if err := s.out.Write(ctx, ev); err != nil {
		s.logger.Warn("session event write failed", "kind", ev.Kind, "error", err)
	}
}

func (s *Store) commitEvent(kind model.EventKind, snap Snapshot, c model.Commit) model.SessionEvent {
	counts := c.Counts
	t := snap.Thresholds
	return model.SessionEvent{
		Kind:       kind,
		SessionID:  s.id,
		Timestamp:  s.now(),
		Stage:      snap.Stage,
		CommitID:   c.ID,
		CommitType: c.Type,
		Counts:     &counts,
		Iteration:  snap.Iteration,
		Thresholds: &t,
	}
}
