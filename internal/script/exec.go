package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/crimson-sun/winnow/internal/engine/drag"
	"github.com/crimson-sun/winnow/internal/model"
	"github.com/crimson-sun/winnow/internal/session"
)

// chartWidth is the virtual canvas the drag op maps scores onto.
const chartWidth, chartHeight = 600, 200

// boundaryLimit caps each side of the boundary listing.
const boundaryLimit = 10

// ErrNoHistogram is returned by drag before the first retrain.
var ErrNoHistogram = errors.New("no histogram yet, train first")

// Executor runs steps against a session store and prints results to w.
type Executor struct {
	store  *session.Store
	w      io.Writer
	logger *slog.Logger
}

// NewExecutor creates an executor over store.
func NewExecutor(store *session.Store, w io.Writer, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{store: store, w: w, logger: logger}
}

// Run executes every step in order, stopping at the first error.
func (e *Executor) Run(ctx context.Context, s Script) error {
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Exec(ctx, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}

// Exec executes one step.
func (e *Executor) Exec(ctx context.Context, st Step) error {
	if err := st.Validate(); err != nil {
		return err
	}
	e.logger.Debug("script step", "op", st.Op, "ids", st.IDs)

	switch st.Op {
	case OpInit:
		if err := e.store.Initialize(ctx); err != nil {
			return err
		}
		snap := e.store.Snapshot()
		e.printf("initialized %d items, %d diverse suggestions\n", len(snap.IDs), len(snap.Diverse))
	case OpSelect, OpReject:
		state := model.Selected
		if st.Op == OpReject {
			state = model.Rejected
		}
		source := model.SourceClick
		if st.Source != "" {
			source = model.SelectionSource(st.Source)
		}
		for _, id := range st.IDs {
			if err := e.store.SetSelection(id, state, source); err != nil {
				return err
			}
		}
	case OpClear:
		for _, id := range st.IDs {
			e.store.RemoveSelection(id)
		}
	case OpTrain:
		outcome, err := e.store.RequestRetrain(ctx)
		if err != nil {
			return err
		}
		e.reportRetrain(outcome)
	case OpThresholds:
		e.store.UpdateThresholds(*st.Select, *st.Reject)
	case OpDrag:
		return e.drag(st)
	case OpApply:
		commit, outcome, err := e.store.ApplyThresholds(ctx)
		if err != nil {
			return err
		}
		e.printf("commit %d (%s): %s\n", commit.ID, commit.Type, RenderCounts(commit.Counts))
		e.reportRetrain(outcome)
	case OpCommit:
		commit := e.store.CommitManual()
		e.printf("commit %d (%s): %s\n", commit.ID, commit.Type, RenderCounts(commit.Counts))
	case OpRestore:
		if !e.store.RestoreCommit(*st.Commit) {
			return fmt.Errorf("no commit %d", *st.Commit)
		}
		e.printf("restored commit %d\n", *st.Commit)
	case OpStatus:
		e.printf("%s\n", RenderStatus(e.store.Snapshot()))
	case OpBoundary:
		e.printf("%s\n", RenderBoundary(e.store.Boundary(), boundaryLimit))
	case OpShow:
		c, err := e.store.Content(ctx, st.IDs[0])
		if err != nil {
			return err
		}
		e.printf("%s\n", RenderContent(c))
	case OpFocus:
		if !e.store.SetFocus(st.IDs[0]) {
			return fmt.Errorf("no item %d", st.IDs[0])
		}
	}
	return nil
}

// drag replays a handle drag: grab, move to the target, release. The
// preview at the release point is printed before the thresholds are stored.
func (e *Executor) drag(st Step) error {
	chart, ok := e.store.Chart(chartWidth, chartHeight)
	if !ok {
		return ErrNoHistogram
	}
	handle := drag.Select
	if st.Handle == "reject" {
		handle = drag.Reject
	}

	d := drag.New(e.store.Snapshot().Thresholds, chart.Layout.X, drag.DefaultGap)
	e.store.SetDragging(true)
	d.Begin(handle)
	live := d.Move(*st.To)
	if r := e.store.CountsAt(live); r.Preview != nil {
		e.printf("preview: %s\n", RenderCounts(*r.Preview))
	}
	t := d.End()
	e.store.UpdateThresholds(t.Select, t.Reject)
	e.store.SetDragging(false)
	e.printf("thresholds select >= %.3f reject <= %.3f\n", t.Select, t.Reject)
	return nil
}

func (e *Executor) reportRetrain(o session.RetrainOutcome) {
	switch o {
	case session.OutcomeInsufficient:
		e.printf("need at least %d selected and %d rejected labels to train\n",
			session.MinPerClass, session.MinPerClass)
	case session.OutcomeApplied:
		snap := e.store.Snapshot()
		e.printf("iteration %d trained on %d scored items\n", snap.Iteration, len(snap.Scores))
	default:
		e.printf("retrain %s\n", o)
	}
}

func (e *Executor) printf(format string, args ...any) {
	fmt.Fprintf(e.w, format, args...)
}
