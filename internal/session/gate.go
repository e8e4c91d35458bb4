package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskdeck/internal/model"
)

// Typed authentication outcomes. Reported distinctly so the caller can
// guide the user; none of them mutate gate state.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDeactivated   = errors.New("account is deactivated")
	ErrWrongPassword = errors.New("invalid password")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

// Directory is the slice of the gateway the gate needs: user lookup by
// equality filter and user creation.
type Directory interface {
	UsersByEmail(ctx context.Context, email string) ([]model.User, error)
	UsersByUsername(ctx context.Context, username string) ([]model.User, error)
	CreateUser(ctx context.Context, u model.User) (model.User, error)
}

// Gate decides whether task operations may run and exposes the current
// principal. It is the sole owner of the persisted session blob.
type Gate struct {
	store     Store
	users     Directory
	principal model.Principal
	active    bool
	now       func() time.Time
}

// NewGate creates a gate over the given blob store and user directory.
func NewGate(store Store, users Directory) *Gate {
	return &Gate{store: store, users: users, now: time.Now}
}

// Restore loads a previously persisted session. Restoration trusts the
// persisted value and makes no gateway call; an absent or malformed blob
// leaves the gate unauthenticated.
func (g *Gate) Restore() {
	flag, err := g.store.Get(KeyAuthenticated)
	if err != nil || flag != "true" {
		return
	}
	raw, err := g.store.Get(KeyUser)
	if err != nil {
		return
	}
	var p model.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == "" {
		return
	}
	g.principal = p
	g.active = true
}

// Authenticate verifies email and password against the user directory.
// On success the session is persisted and the gate becomes authenticated.
// Failures are typed (ErrUserNotFound, ErrDeactivated, ErrWrongPassword)
// and leave the gate untouched.
func (g *Gate) Authenticate(ctx context.Context, email, password string) error {
	if err := model.ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return &model.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	users, err := g.users.UsersByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return ErrUserNotFound
	}
	u := users[0]
	if !u.IsActive {
		return ErrDeactivated
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return ErrWrongPassword
	}

	p := model.Principal{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		LoginTime: g.now(),
	}
	blob, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := g.store.Set(KeyUser, string(blob)); err != nil {
		return err
	}
	if err := g.store.Set(KeyAuthenticated, "true"); err != nil {
		return err
	}

	g.principal = p
	g.active = true
	return nil
}

// Register creates a new account. It does not log the new user in.
func (g *Gate) Register(ctx context.Context, email, username, password string) error {
	if err := model.ValidateEmail(email); err != nil {
		return err
	}
	if err := model.ValidateUsername(username); err != nil {
		return err
	}
	if err := model.ValidatePassword(password); err != nil {
		return err
	}

	existing, err := g.users.UsersByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ErrEmailTaken
	}
	existing, err = g.users.UsersByUsername(ctx, username)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = g.users.CreateUser(ctx, model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		Password:  string(hash),
		CreatedAt: g.now(),
		IsActive:  true,
	})
	return err
}

// Logout clears the persisted blob and the in-memory principal. The
// in-memory state is cleared even when persistence fails; the first
// persistence error is returned for reporting.
func (g *Gate) Logout() error {
	errUser := g.store.Delete(KeyUser)
	errFlag := g.store.Delete(KeyAuthenticated)

	g.principal = model.Principal{}
	g.active = false

	if errUser != nil {
		return errUser
	}
	return errFlag
}

// Authenticated reports whether a principal is present.
func (g *Gate) Authenticated() bool { return g.active }

// Principal returns the current principal; ok is false while the gate is
// unauthenticated.
func (g *Gate) Principal() (model.Principal, bool) {
	return g.principal, g.active
}
