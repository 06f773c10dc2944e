package session

import (
	"context"

	"github.com/crimson-sun/winnow/internal/model"
)

// CommitManual records the live selection as a manual commit and makes it active.
func (s *Store) CommitManual() model.Commit {
	s.mu.Lock()
	next := s.snap
	commit := s.newCommit(len(next.Commits), model.CommitManual, next.Selection, next.IDs)
	next = next.withCommit(commit)
	s.snap = next
	s.mu.Unlock()

	s.logger.Info("manual commit", "commit", commit.ID, "labeled", commit.Selection.Len())
	s.metrics.Commit(commit)
	s.emit(context.Background(), s.commitEvent(model.EventCommit, next, commit))
	return commit
}

// RestoreCommit makes commit id active and replaces the live selection with
// a copy of its selection. History, scores and thresholds are untouched.
// It reports false when no such commit exists.
func (s *Store) RestoreCommit(id int) bool {
	s.mu.Lock()
	commit, ok := s.snap.Commit(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	next := s.snap
	next.Selection = commit.Selection.Clone()
	next.ActiveCommit = id
	s.snap = next
	s.mu.Unlock()

	s.logger.Info("commit restored", "commit", id, "type", commit.Type)
	s.metrics.Counts(commit.Counts)
	s.emit(context.Background(), s.commitEvent(model.EventRestore, next, commit))
	return true
}

// Commits returns the commit log, oldest first.
func (s *Store) Commits() []model.Commit {
	snap := s.Snapshot()
	return snap.Commits
}
