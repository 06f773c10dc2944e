package model

import "time"

// CommitType names what produced a commit.
type CommitType string

const (
	CommitInitial   CommitType = "initial"
	CommitManual    CommitType = "manual"
	CommitThreshold CommitType = "threshold"
)

// Commit is an immutable snapshot of the selection. Commit 0 is the
// all-unsure start state.
type Commit struct {
	ID        int
	Type      CommitType
	Timestamp time.Time
	Selection Selection
	Counts    Counts
}
