package model

import "time"

// EventKind names a session event.
type EventKind string

const (
	EventInitialized EventKind = "initialized"
	EventCommit      EventKind = "commit"
	EventRestore     EventKind = "restore"
	EventIteration   EventKind = "iteration"
)

// SessionEvent is the session's output type, written to the configured
// outputs whenever the labeling history changes.
type SessionEvent struct {
	Kind       EventKind   `json:"kind"`
	SessionID  string      `json:"session_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Stage      Stage       `json:"stage"`
	CommitID   int         `json:"commit_id"`
	CommitType CommitType  `json:"commit_type,omitempty"`
	Counts     *Counts     `json:"counts,omitempty"`
	Iteration  int         `json:"iteration,omitempty"`
	FlipRate   float64     `json:"flip_rate,omitempty"`
	Converging bool        `json:"converging,omitempty"`
	Thresholds *Thresholds `json:"thresholds,omitempty"`
}
