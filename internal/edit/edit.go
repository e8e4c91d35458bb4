// Package edit implements the inline-edit session: a per-task,
// at-most-one-active transaction of draft fields layered on top of the
// task store. The draft is scratch state; nothing is persisted until
// commit.
package edit

import (
	"context"
	"errors"

	"taskdeck/internal/model"
	"taskdeck/internal/store"
)

// State is the session state.
type State string

const (
	// Idle means no edit is in progress.
	Idle State = "Idle"

	// Editing means one task has an active draft.
	Editing State = "Editing"
)

var (
	// ErrBusy is returned by Begin while a different task is being
	// edited.
	ErrBusy = errors.New("another edit is already in progress")

	// ErrNotEditing is returned by Commit and draft mutators in Idle.
	ErrNotEditing = errors.New("no edit in progress")

	// ErrTaskGone is returned by Begin or Commit when the target task
	// no longer exists in the store. Deletion wins over an in-flight
	// edit; the session is forced back to Idle.
	ErrTaskGone = errors.New("task no longer exists")
)

// Draft is the scratch copy of one task's mutable fields.
type Draft struct {
	Title      string
	Status     model.Status
	Importance model.Importance
	Due        string
}

// Session is the edit state machine. At most one draft exists at a time.
type Session struct {
	store  *store.Store
	state  State
	taskID string
	draft  Draft
}

// NewSession creates an Idle session over st.
func NewSession(st *store.Store) *Session {
	return &Session{store: st, state: Idle}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// TaskID returns the id of the task being edited, or "" in Idle.
func (s *Session) TaskID() string {
	if s.state != Editing {
		return ""
	}
	return s.taskID
}

// Draft returns the current draft; ok is false in Idle.
func (s *Session) Draft() (Draft, bool) {
	if s.state != Editing {
		return Draft{}, false
	}
	return s.draft, true
}

// Begin starts editing the task with the given id, initializing the
// draft from its current snapshot. It fails with ErrBusy while a
// different task is being edited; beginning again on the same task
// reinitializes the draft.
func (s *Session) Begin(taskID string) error {
	if s.state == Editing && s.taskID != taskID {
		return ErrBusy
	}
	t, ok := s.store.Get(taskID)
	if !ok {
		return ErrTaskGone
	}
	s.state = Editing
	s.taskID = taskID
	s.draft = Draft{
		Title:      t.Title,
		Status:     t.Status,
		Importance: t.Importance,
		Due:        t.Due,
	}
	return nil
}

// SetDraft replaces the draft fields.
func (s *Session) SetDraft(d Draft) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	s.draft = d
	return nil
}

// Cancel discards the draft unconditionally. The store is untouched.
func (s *Session) Cancel() {
	s.state = Idle
	s.taskID = ""
	s.draft = Draft{}
}

// Commit validates the draft and applies it through the store. A
// validation error or a gateway failure keeps the session in Editing so
// the caller can retry or cancel; success transitions to Idle. If the
// task was deleted underneath the edit, the session is forced to Idle
// and ErrTaskGone is returned.
func (s *Session) Commit(ctx context.Context) (model.Task, error) {
	if s.state != Editing {
		return model.Task{}, ErrNotEditing
	}
	if err := model.ValidateTitle(s.draft.Title); err != nil {
		return model.Task{}, err
	}
	if _, ok := s.store.Get(s.taskID); !ok {
		s.Cancel()
		return model.Task{}, ErrTaskGone
	}

	updated, err := s.store.Update(ctx, s.taskID, store.Fields{
		Title:      s.draft.Title,
		Status:     s.draft.Status,
		Importance: s.draft.Importance,
		Due:        s.draft.Due,
	})
	if err != nil {
		return model.Task{}, err
	}
	s.Cancel()
	return updated, nil
}

// TaskDeleted notifies the session that a task was removed. If it is
// the one being edited, the session is forced to Idle and the draft
// discarded.
func (s *Session) TaskDeleted(taskID string) {
	if s.state == Editing && s.taskID == taskID {
		s.Cancel()
	}
}
