// Package store implements the authoritative in-memory task collection
// for one principal, synchronized with the Remote Data Gateway. The
// store is the only writer of task state; every mutating operation is
// all-or-nothing with respect to the in-memory collection.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/gateway"
	"taskdeck/internal/model"
)

var (
	// ErrNoOwner is returned when the store has no owner id, which
	// happens only when it was built without an authenticated session.
	ErrNoOwner = errors.New("no owner id available")

	// ErrStale is returned when an operation's completion arrived after
	// the collection it was issued against was replaced or reset. The
	// late result is discarded, never applied.
	ErrStale = errors.New("stale completion discarded")
)

// Remote is the slice of the gateway the store consumes.
type Remote interface {
	TasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, id string, p gateway.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Fields is the mutable field set supplied on create and update.
type Fields struct {
	Title      string
	Status     model.Status
	Importance model.Importance
	Due        string
}

// Store owns the task collection for one owner.
//
// The four CRUD operations are serialized per instance: a second
// operation does not start until the previous one's outcome has been
// observed. Readers are not blocked by an in-flight operation.
type Store struct {
	remote Remote
	owner  string

	opMu sync.Mutex // serializes Load/Create/Update/Delete

	mu      sync.Mutex // guards the fields below
	tasks   []model.Task
	gen     uint64
	lastErr error

	now   func() time.Time
	newID func() string
}

// New creates a store for ownerID backed by remote.
func New(remote Remote, ownerID string) *Store {
	return &Store{
		remote: remote,
		owner:  ownerID,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id, if present.
func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Err returns the error recorded by the most recent failed operation,
// or nil if the last operation succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Load fetches all tasks for the owner and replaces the collection. On
// failure the collection is left unchanged and the error is recorded;
// there is no retry.
func (s *Store) Load(ctx context.Context) error {
	if s.owner == "" {
		return ErrNoOwner
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	gen := s.generation()
	tasks, err := s.remote.TasksByOwner(ctx, s.owner)
	if err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrStale
	}
	s.tasks = tasks
	s.lastErr = nil
	return nil
}

// Create validates and persists a new task stamped with the owner id,
// then appends the gateway's returned representation. There is no
// optimistic insert: on failure the collection is unchanged.
func (s *Store) Create(ctx context.Context, f Fields) (model.Task, error) {
	if s.owner == "" {
		return model.Task{}, ErrNoOwner
	}
	if err := model.ValidateTitle(f.Title); err != nil {
		return model.Task{}, err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	now := s.now()
	t := model.Task{
		Title:      f.Title,
		Status:     f.Status,
		Importance: f.Importance,
		Due:        f.Due,
		OwnerID:    s.owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	gen := s.generation()
	created, err := s.remote.CreateTask(ctx, t)
	if err != nil {
		return model.Task{}, s.record(err)
	}
	if created.ID == "" {
		// Degraded gateway response without a canonical id; fall back
		// to a client-generated one.
		created.ID = s.newID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return model.Task{}, ErrStale
	}
	s.tasks = append(s.tasks, created)
	s.lastErr = nil
	return created, nil
}

// Update sends the full mutable field set for id and merges the
// gateway's response into the matching record, with the response taking
// precedence over locally held fields. On failure the prior record is
// retained.
func (s *Store) Update(ctx context.Context, id string, f Fields) (model.Task, error) {
	if s.owner == "" {
		return model.Task{}, ErrNoOwner
	}
	if err := model.ValidateTitle(f.Title); err != nil {
		return model.Task{}, err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	prior, ok := s.Get(id)
	if !ok {
		return model.Task{}, gateway.ErrNotFound
	}

	patch := gateway.TaskPatch{
		Title:      f.Title,
		Status:     f.Status,
		Importance: f.Importance,
		Due:        f.Due,
		UpdatedAt:  s.now(),
	}

	gen := s.generation()
	resp, err := s.remote.UpdateTask(ctx, id, patch)
	if err != nil {
		return model.Task{}, s.record(err)
	}
	merged := merge(prior, resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return model.Task{}, ErrStale
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = merged
			break
		}
	}
	s.lastErr = nil
	return merged, nil
}

// Delete removes the task with the given id. On failure the record is
// retained.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.owner == "" {
		return ErrNoOwner
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	gen := s.generation()
	if err := s.remote.DeleteTask(ctx, id); err != nil {
		return s.record(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrStale
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.lastErr = nil
	return nil
}

// Reset discards the collection, for example when the session ends. Any
// in-flight completion observes the bumped generation and is discarded.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil
	s.lastErr = nil
	s.gen++
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Store) record(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	return err
}

// merge overlays the gateway's response onto the prior record. The
// response wins wherever it carries a value; immutable fields absent
// from a partial response are kept from the prior record.
func merge(prior, resp model.Task) model.Task {
	out := resp
	if out.ID == "" {
		out.ID = prior.ID
	}
	if out.OwnerID == "" {
		out.OwnerID = prior.OwnerID
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = prior.CreatedAt
	}
	return out
}
