package session

import (
	"slices"

	"github.com/crimson-sun/winnow/internal/model"
)

// Snapshot is one immutable version of the session. The store never mutates
// a published snapshot; every transition builds a new one and swaps it in.
// Maps and slices reachable from a Snapshot must be treated as read-only.
type Snapshot struct {
	Initialized bool
	Loading     bool

	Universe model.Universe
	IDs      []int
	Diverse  []int
	Focus    int
	HasFocus bool

	Selection model.Selection

	Scores         model.Scores
	Histogram      *model.Histogram
	Statistics     model.Statistics
	CommitteeVotes map[int]model.CommitteeVote
	Predictions    map[int]model.SelectionState

	Thresholds model.Thresholds
	Dragging   bool

	Commits      []model.Commit
	ActiveCommit int

	Stage       model.Stage
	Iteration   int
	FlipHistory []model.FlipEntry
}

// Commit returns the commit with the given id.
func (s Snapshot) Commit(id int) (model.Commit, bool) {
	// IDs are dense from 0, so the id is the index.
	if id < 0 || id >= len(s.Commits) {
		return model.Commit{}, false
	}
	return s.Commits[id], true
}

// Active returns the active commit.
func (s Snapshot) Active() model.Commit {
	c, _ := s.Commit(s.ActiveCommit)
	return c
}

// withCommit appends c without sharing the backing array of s.Commits.
func (s Snapshot) withCommit(c model.Commit) Snapshot {
	s.Commits = append(slices.Clip(s.Commits), c)
	s.ActiveCommit = c.ID
	return s
}

func fresh() Snapshot {
	return Snapshot{
		Selection: model.NewSelection(),
		Stage:     model.StageBootstrap,
	}
}
