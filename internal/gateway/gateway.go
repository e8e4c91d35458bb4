// Package gateway defines the interface to the Remote Data Gateway, the
// external CRUD service backing tasks and users. All remote access goes
// through this interface; commands never talk HTTP directly.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskdeck/internal/model"
)

// ErrNotFound is returned when a record does not exist on the gateway.
var ErrNotFound = errors.New("not found")

// TransportError reports that the gateway was unreachable or answered
// with a non-2xx status. Local state must stay at its last-known-good
// value when one is returned.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway %s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TaskPatch is the mutable field set sent on update. The id, owner and
// creation timestamp are never patched.
type TaskPatch struct {
	Title      string           `json:"title"`
	Status     model.Status     `json:"status"`
	Importance model.Importance `json:"importance"`
	Due        string           `json:"due"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Gateway is the set of gateway verbs the application consumes.
// Queries are equality filters; list results preserve gateway order.
type Gateway interface {
	// UsersByEmail returns user records whose email equals email.
	UsersByEmail(ctx context.Context, email string) ([]model.User, error)

	// UsersByUsername returns user records whose username equals username.
	UsersByUsername(ctx context.Context, username string) ([]model.User, error)

	// CreateUser stores a new user record and returns the created
	// representation.
	CreateUser(ctx context.Context, u model.User) (model.User, error)

	// TasksByOwner returns all task records owned by ownerID.
	TasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error)

	// CreateTask stores a new task and returns the created representation,
	// which carries the canonical id.
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)

	// UpdateTask applies a partial update to the task with the given id
	// and returns the resulting record.
	UpdateTask(ctx context.Context, id string, p TaskPatch) (model.Task, error)

	// DeleteTask removes the task with the given id.
	DeleteTask(ctx context.Context, id string) error
}
