package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/testutil"
)

func seedBlob(t *testing.T, store *session.MemStore, p model.Principal, flag string) {
	t.Helper()
	blob, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(session.KeyUser, string(blob)); err != nil {
		t.Fatal(err)
	}
	if flag != "" {
		if err := store.Set(session.KeyAuthenticated, flag); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRestore_ValidBlob(t *testing.T) {
	store := session.NewMemStore()
	seedBlob(t, store, model.Principal{ID: "u1", Email: "a@x.com", Username: "alice", LoginTime: time.Now()}, "true")

	gate := session.NewGate(store, testutil.NewFakeGateway())
	gate.Restore()

	if !gate.Authenticated() {
		t.Fatal("expected authenticated after restore")
	}
	p, ok := gate.Principal()
	if !ok || p.ID != "u1" || p.Username != "alice" {
		t.Errorf("unexpected principal: %+v", p)
	}
}

func TestRestore_MissingFlag(t *testing.T) {
	store := session.NewMemStore()
	seedBlob(t, store, model.Principal{ID: "u1"}, "")

	gate := session.NewGate(store, testutil.NewFakeGateway())
	gate.Restore()

	if gate.Authenticated() {
		t.Error("expected unauthenticated without the flag entry")
	}
}

func TestRestore_FlagNotTrue(t *testing.T) {
	store := session.NewMemStore()
	seedBlob(t, store, model.Principal{ID: "u1"}, "false")

	gate := session.NewGate(store, testutil.NewFakeGateway())
	gate.Restore()

	if gate.Authenticated() {
		t.Error("expected unauthenticated with flag != true")
	}
}

func TestRestore_MalformedBlob(t *testing.T) {
	store := session.NewMemStore()
	if err := store.Set(session.KeyUser, "{not json"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(session.KeyAuthenticated, "true"); err != nil {
		t.Fatal(err)
	}

	gate := session.NewGate(store, testutil.NewFakeGateway())
	gate.Restore()

	if gate.Authenticated() {
		t.Error("expected unauthenticated on malformed blob")
	}
}

func TestAuthenticate_Success(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddUser("u1", "a@x.com", "alice", "right0")
	store := session.NewMemStore()

	gate := session.NewGate(store, gw)
	if err := gate.Authenticate(context.Background(), "a@x.com", "right0"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	if !gate.Authenticated() {
		t.Fatal("expected authenticated")
	}
	p, _ := gate.Principal()
	if p.ID != "u1" || p.Email != "a@x.com" || p.LoginTime.IsZero() {
		t.Errorf("unexpected principal: %+v", p)
	}

	// The blob is persisted: a fresh gate restores it.
	again := session.NewGate(store, gw)
	again.Restore()
	if !again.Authenticated() {
		t.Error("persisted session did not restore")
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddUser("u1", "a@x.com", "alice", "right0")

	gate := session.NewGate(session.NewMemStore(), gw)
	err := gate.Authenticate(context.Background(), "a@x.com", "wrongx")

	if !errors.Is(err, session.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if gate.Authenticated() {
		t.Error("gate authenticated after failed login")
	}
	if _, ok := gate.Principal(); ok {
		t.Error("principal set after failed login")
	}
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	gate := session.NewGate(session.NewMemStore(), testutil.NewFakeGateway())

	err := gate.Authenticate(context.Background(), "ghost@x.com", "whatever")
	if !errors.Is(err, session.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthenticate_Deactivated(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddUser("u1", "a@x.com", "alice", "right0")
	gw.Deactivate("u1")

	gate := session.NewGate(session.NewMemStore(), gw)
	err := gate.Authenticate(context.Background(), "a@x.com", "right0")

	if !errors.Is(err, session.ErrDeactivated) {
		t.Errorf("expected ErrDeactivated, got %v", err)
	}
}

func TestAuthenticate_MalformedEmailSkipsGateway(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.UsersByEmailErr = errors.New("should not be called")

	gate := session.NewGate(session.NewMemStore(), gw)
	err := gate.Authenticate(context.Background(), "not-an-email", "secret")

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLogout_ClearsMemoryEvenWhenPersistenceFails(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddUser("u1", "a@x.com", "alice", "right0")
	store := session.NewMemStore()

	gate := session.NewGate(store, gw)
	if err := gate.Authenticate(context.Background(), "a@x.com", "right0"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	store.DeleteErr = errors.New("disk on fire")
	err := gate.Logout()
	if err == nil {
		t.Error("expected persistence error to be reported")
	}
	if gate.Authenticated() {
		t.Error("in-memory session survived logout")
	}
}

func TestLogout_RemovesPersistedEntries(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddUser("u1", "a@x.com", "alice", "right0")
	store := session.NewMemStore()

	gate := session.NewGate(store, gw)
	if err := gate.Authenticate(context.Background(), "a@x.com", "right0"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if err := gate.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := store.Get(session.KeyUser); !errors.Is(err, session.ErrNoEntry) {
		t.Error("user entry still present")
	}
	if _, err := store.Get(session.KeyAuthenticated); !errors.Is(err, session.ErrNoEntry) {
		t.Error("flag entry still present")
	}
}

func TestRegister_Success(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gate := session.NewGate(session.NewMemStore(), gw)

	if err := gate.Register(context.Background(), "new@x.com", "newbie", "secret1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	users, err := gw.UsersByEmail(context.Background(), "new@x.com")
	if err != nil || len(users) != 1 {
		t.Fatalf("expected one stored user, got %v (%v)", users, err)
	}
	u := users[0]
	if u.ID == "" || !u.IsActive {
		t.Errorf("unexpected stored user: %+v", u)
	}
	if u.Password == "secret1" {
		t.Error("password stored in plaintext")
	}

	// Registration does not log in.
	if gate.Authenticated() {
		t.Error("register must not authenticate")
	}

	// The stored hash verifies on login.
	if err := gate.Authenticate(context.Background(), "new@x.com", "secret1"); err != nil {
		t.Errorf("login after register failed: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddUser("u1", "a@x.com", "alice", "right0")

	gate := session.NewGate(session.NewMemStore(), gw)
	err := gate.Register(context.Background(), "a@x.com", "other", "secret1")

	if !errors.Is(err, session.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddUser("u1", "a@x.com", "alice", "right0")

	gate := session.NewGate(session.NewMemStore(), gw)
	err := gate.Register(context.Background(), "b@x.com", "alice", "secret1")

	if !errors.Is(err, session.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	gate := session.NewGate(session.NewMemStore(), testutil.NewFakeGateway())

	cases := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{"bad email", "nope", "alice", "secret1"},
		{"short username", "a@x.com", "al", "secret1"},
		{"short password", "a@x.com", "alice", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.Register(context.Background(), tc.email, tc.username, tc.password)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
