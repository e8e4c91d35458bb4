// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskdeck/internal/gateway"
	"taskdeck/internal/model"
)

// FakeGateway is an in-memory implementation of gateway.Gateway for
// testing.
type FakeGateway struct {
	mu    sync.RWMutex
	users []model.User
	tasks []model.Task
	seq   int

	// Error injection for testing
	UsersByEmailErr    error
	UsersByUsernameErr error
	CreateUserErr      error
	TasksByOwnerErr    error
	CreateTaskErr      error
	UpdateTaskErr      error
	DeleteTaskErr      error

	// StripCreatedID makes CreateTask return the record without an id,
	// exercising the client-side id fallback.
	StripCreatedID bool

	// BeforeReply, when set, runs just before a task operation returns.
	// Used to interleave work with an in-flight call.
	BeforeReply func()
}

// NewFakeGateway creates an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

// AddUser seeds an active user; password is stored bcrypt-hashed the way
// registration would store it. Returns the assigned user id.
func (f *FakeGateway) AddUser(id, email, username, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, model.User{
		ID:        id,
		Email:     email,
		Username:  username,
		Password:  string(hash),
		CreatedAt: time.Now(),
		IsActive:  true,
	})
	return id
}

// Deactivate marks the user with the given id inactive.
func (f *FakeGateway) Deactivate(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].IsActive = false
		}
	}
}

// AddTask seeds a task record. Returns the task id.
func (f *FakeGateway) AddTask(t model.Task) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		f.seq++
		t.ID = fmt.Sprintf("t%d", f.seq)
	}
	f.tasks = append(f.tasks, t)
	return t.ID
}

// TaskByID returns the stored record for id, for assertions.
func (f *FakeGateway) TaskByID(id string) (model.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// UsersByEmail implements gateway.Gateway.
func (f *FakeGateway) UsersByEmail(ctx context.Context, email string) ([]model.User, error) {
	if f.UsersByEmailErr != nil {
		return nil, f.UsersByEmailErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []model.User
	for _, u := range f.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

// UsersByUsername implements gateway.Gateway.
func (f *FakeGateway) UsersByUsername(ctx context.Context, username string) ([]model.User, error) {
	if f.UsersByUsernameErr != nil {
		return nil, f.UsersByUsernameErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []model.User
	for _, u := range f.users {
		if u.Username == username {
			out = append(out, u)
		}
	}
	return out, nil
}

// CreateUser implements gateway.Gateway.
func (f *FakeGateway) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	if f.CreateUserErr != nil {
		return model.User{}, f.CreateUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, u)
	return u, nil
}

// TasksByOwner implements gateway.Gateway.
func (f *FakeGateway) TasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	if f.TasksByOwnerErr != nil {
		return nil, f.TasksByOwnerErr
	}
	f.mu.RLock()
	var out []model.Task
	for _, t := range f.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	f.mu.RUnlock()
	if f.BeforeReply != nil {
		f.BeforeReply()
	}
	return out, nil
}

// CreateTask implements gateway.Gateway.
func (f *FakeGateway) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if f.CreateTaskErr != nil {
		return model.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	if t.ID == "" {
		f.seq++
		t.ID = fmt.Sprintf("t%d", f.seq)
	}
	f.tasks = append(f.tasks, t)
	created := t
	f.mu.Unlock()
	if f.BeforeReply != nil {
		f.BeforeReply()
	}
	if f.StripCreatedID {
		created.ID = ""
	}
	return created, nil
}

// UpdateTask implements gateway.Gateway.
func (f *FakeGateway) UpdateTask(ctx context.Context, id string, p gateway.TaskPatch) (model.Task, error) {
	if f.UpdateTaskErr != nil {
		return model.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	var updated model.Task
	found := false
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Title = p.Title
			f.tasks[i].Status = p.Status
			f.tasks[i].Importance = p.Importance
			f.tasks[i].Due = p.Due
			f.tasks[i].UpdatedAt = p.UpdatedAt
			updated = f.tasks[i]
			found = true
			break
		}
	}
	f.mu.Unlock()
	if !found {
		return model.Task{}, gateway.ErrNotFound
	}
	if f.BeforeReply != nil {
		f.BeforeReply()
	}
	return updated, nil
}

// DeleteTask implements gateway.Gateway.
func (f *FakeGateway) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	found := false
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			found = true
			break
		}
	}
	f.mu.Unlock()
	if !found {
		return gateway.ErrNotFound
	}
	if f.BeforeReply != nil {
		f.BeforeReply()
	}
	return nil
}
