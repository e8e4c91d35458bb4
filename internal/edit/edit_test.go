package edit_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"taskdeck/internal/edit"
	"taskdeck/internal/gateway"
	"taskdeck/internal/model"
	"taskdeck/internal/store"
	"taskdeck/internal/testutil"
)

func loadedStore(t *testing.T, gw *testutil.FakeGateway) *store.Store {
	t.Helper()
	st := store.New(gw, "u1")
	if err := st.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return st
}

func seed(gw *testutil.FakeGateway) {
	gw.AddTask(model.Task{ID: "t1", Title: "First", Status: model.StatusPending, Importance: model.ImportanceHigh, OwnerID: "u1"})
	gw.AddTask(model.Task{ID: "t2", Title: "Second", Status: model.StatusCompleted, Importance: model.ImportanceLow, OwnerID: "u1"})
}

func TestBegin_InitializesDraftFromSnapshot(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	sess := edit.NewSession(loadedStore(t, gw))

	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if sess.State() != edit.Editing {
		t.Errorf("expected Editing, got %s", sess.State())
	}

	draft, ok := sess.Draft()
	if !ok {
		t.Fatal("expected a draft")
	}
	want := edit.Draft{Title: "First", Status: model.StatusPending, Importance: model.ImportanceHigh}
	if draft != want {
		t.Errorf("draft %+v, want %+v", draft, want)
	}
}

func TestBegin_SecondTaskRefused(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	sess := edit.NewSession(loadedStore(t, gw))

	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := sess.Begin("t2"); !errors.Is(err, edit.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if sess.TaskID() != "t1" {
		t.Errorf("session moved to %s", sess.TaskID())
	}
}

func TestBegin_SameTaskReinitializesDraft(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	sess := edit.NewSession(loadedStore(t, gw))

	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	draft, _ := sess.Draft()
	draft.Title = "Scratch"
	if err := sess.SetDraft(draft); err != nil {
		t.Fatalf("set draft failed: %v", err)
	}

	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("re-begin failed: %v", err)
	}
	draft, _ = sess.Draft()
	if draft.Title != "First" {
		t.Errorf("draft not reinitialized, title %q", draft.Title)
	}
}

func TestBegin_UnknownTask(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	sess := edit.NewSession(loadedStore(t, gw))

	if err := sess.Begin("nope"); !errors.Is(err, edit.ErrTaskGone) {
		t.Errorf("expected ErrTaskGone, got %v", err)
	}
	if sess.State() != edit.Idle {
		t.Errorf("expected Idle, got %s", sess.State())
	}
}

func TestCancel_LeavesStoreUntouched(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	st := loadedStore(t, gw)
	before := st.Tasks()

	sess := edit.NewSession(st)
	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := sess.SetDraft(edit.Draft{Title: "Mutated", Status: model.StatusCompleted, Importance: model.ImportanceLow}); err != nil {
		t.Fatalf("set draft failed: %v", err)
	}
	sess.Cancel()

	if sess.State() != edit.Idle {
		t.Errorf("expected Idle, got %s", sess.State())
	}
	if !reflect.DeepEqual(st.Tasks(), before) {
		t.Error("store changed by canceled edit")
	}
}

func TestCommit_EmptyTitleKeepsEditing(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	st := loadedStore(t, gw)
	before := st.Tasks()

	sess := edit.NewSession(st)
	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := sess.SetDraft(edit.Draft{Title: "  "}); err != nil {
		t.Fatalf("set draft failed: %v", err)
	}

	_, err := sess.Commit(context.Background())
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if sess.State() != edit.Editing {
		t.Errorf("expected Editing after invalid commit, got %s", sess.State())
	}
	if !reflect.DeepEqual(st.Tasks(), before) {
		t.Error("store changed by invalid commit")
	}
}

func TestCommit_AppliesDraftAndGoesIdle(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	st := loadedStore(t, gw)

	sess := edit.NewSession(st)
	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := sess.SetDraft(edit.Draft{
		Title:      "Renamed",
		Status:     model.StatusInProgress,
		Importance: model.ImportanceMedium,
		Due:        "2026-10-01",
	}); err != nil {
		t.Fatalf("set draft failed: %v", err)
	}

	updated, err := sess.Commit(context.Background())
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if sess.State() != edit.Idle {
		t.Errorf("expected Idle, got %s", sess.State())
	}
	if updated.Title != "Renamed" || updated.Status != model.StatusInProgress {
		t.Errorf("unexpected updated record: %+v", updated)
	}

	got, _ := st.Get("t1")
	if got.Title != "Renamed" || got.Due != "2026-10-01" {
		t.Errorf("store not updated: %+v", got)
	}
}

func TestCommit_GatewayFailureKeepsEditing(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	st := loadedStore(t, gw)

	sess := edit.NewSession(st)
	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := sess.SetDraft(edit.Draft{Title: "Retryable", Status: model.StatusPending, Importance: model.ImportanceHigh}); err != nil {
		t.Fatalf("set draft failed: %v", err)
	}

	gw.UpdateTaskErr = &gateway.TransportError{Op: "PATCH /tasks/t1", Status: 500}
	if _, err := sess.Commit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if sess.State() != edit.Editing {
		t.Errorf("expected Editing after gateway failure, got %s", sess.State())
	}

	// Retry succeeds once the gateway recovers.
	gw.UpdateTaskErr = nil
	if _, err := sess.Commit(context.Background()); err != nil {
		t.Fatalf("retry commit failed: %v", err)
	}
	if sess.State() != edit.Idle {
		t.Errorf("expected Idle after retry, got %s", sess.State())
	}
}

func TestDeletionWinsOverEdit(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	st := loadedStore(t, gw)

	sess := edit.NewSession(st)
	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	if err := st.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	sess.TaskDeleted("t1")

	if sess.State() != edit.Idle {
		t.Errorf("expected forced Idle, got %s", sess.State())
	}
	if _, ok := sess.Draft(); ok {
		t.Error("draft survived deletion")
	}
}

func TestCommit_AfterConcurrentDeleteForcedIdle(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	st := loadedStore(t, gw)

	sess := edit.NewSession(st)
	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	// Delete without notifying the session; commit must detect it.
	if err := st.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, err := sess.Commit(context.Background())
	if !errors.Is(err, edit.ErrTaskGone) {
		t.Errorf("expected ErrTaskGone, got %v", err)
	}
	if sess.State() != edit.Idle {
		t.Errorf("expected Idle, got %s", sess.State())
	}
}

func TestTaskDeleted_OtherTaskIgnored(t *testing.T) {
	gw := testutil.NewFakeGateway()
	seed(gw)
	sess := edit.NewSession(loadedStore(t, gw))

	if err := sess.Begin("t1"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	sess.TaskDeleted("t2")

	if sess.State() != edit.Editing {
		t.Errorf("unrelated deletion ended the session: %s", sess.State())
	}
}
