package filter_test

import (
	"reflect"
	"testing"

	"taskdeck/internal/filter"
	"taskdeck/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "t1", Title: "Write report", Status: model.StatusPending, Importance: model.ImportanceHigh},
		{ID: "t2", Title: "Review PR", Status: model.StatusInProgress, Importance: model.ImportanceMedium},
		{ID: "t3", Title: "Ship release", Status: model.StatusCompleted, Importance: model.ImportanceLow},
		{ID: "t4", Title: "Plan sprint", Status: model.StatusPending, Importance: model.ImportanceLow},
	}
}

func TestProject_AllAllReturnsUnchangedOrder(t *testing.T) {
	tasks := sampleTasks()

	got := filter.Project(tasks, filter.None)

	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("expected unchanged collection, got %v", got)
	}
}

func TestProject_StatusOnly(t *testing.T) {
	tasks := sampleTasks()

	got := filter.Project(tasks, filter.Filter{Status: "Pending", Importance: filter.All})

	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t4" {
		t.Errorf("expected [t1 t4], got %v", got)
	}
}

func TestProject_BothAxes(t *testing.T) {
	tasks := sampleTasks()

	got := filter.Project(tasks, filter.Filter{Status: "Pending", Importance: "Low"})

	if len(got) != 1 || got[0].ID != "t4" {
		t.Errorf("expected [t4], got %v", got)
	}
}

func TestProject_NoMatches(t *testing.T) {
	tasks := sampleTasks()

	got := filter.Project(tasks, filter.Filter{Status: "Completed", Importance: "High"})

	if len(got) != 0 {
		t.Errorf("expected empty projection, got %v", got)
	}
}

// TestProject_SoundAndComplete checks, for every filter pair, that each
// projected element satisfies both predicates and that no matching
// element of the input is omitted.
func TestProject_SoundAndComplete(t *testing.T) {
	tasks := sampleTasks()
	statuses := []string{filter.All, "Pending", "In Progress", "Completed"}
	importances := []string{filter.All, "High", "Medium", "Low"}

	for _, s := range statuses {
		for _, i := range importances {
			f := filter.Filter{Status: s, Importance: i}
			got := filter.Project(tasks, f)

			for _, task := range got {
				if !f.Match(task) {
					t.Errorf("filter %v: projected %s does not match", f, task.ID)
				}
			}

			want := 0
			for _, task := range tasks {
				if f.Match(task) {
					want++
				}
			}
			if len(got) != want {
				t.Errorf("filter %v: expected %d tasks, got %d", f, want, len(got))
			}
		}
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := make([]model.Task, len(tasks))
	copy(before, tasks)

	filter.Project(tasks, filter.Filter{Status: "Pending", Importance: filter.All})

	if !reflect.DeepEqual(tasks, before) {
		t.Error("projection mutated its input")
	}
}

func TestFilter_Active(t *testing.T) {
	if filter.None.Active() {
		t.Error("All/All should not be active")
	}
	if !(filter.Filter{Status: "Pending", Importance: filter.All}).Active() {
		t.Error("status filter should be active")
	}
	if !(filter.Filter{Status: filter.All, Importance: "Low"}).Active() {
		t.Error("importance filter should be active")
	}
}
