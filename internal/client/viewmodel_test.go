package client

import (
	"testing"
	"time"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/ws"
)

func vmTask(id int64, text string, createdAt time.Time, checked bool) *domain.Task {
	return &domain.Task{ID: id, Text: text, OwnerID: 1, Username: "alice", Checked: checked, CreatedAt: createdAt}
}

func TestViewModelSnapshotAndOrdering(t *testing.T) {
	vm := NewViewModel()
	base := time.Now()

	vm.Apply(&ws.Envelope{Type: ws.MsgSnapshot, Tasks: []*domain.Task{
		vmTask(1, "oldest", base.Add(-2*time.Hour), false),
		vmTask(2, "newest", base, false),
		vmTask(3, "middle", base.Add(-time.Hour), true),
	}})

	tasks := vm.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != 2 || tasks[1].ID != 3 || tasks[2].ID != 1 {
		t.Fatalf("wrong order: %d, %d, %d", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}

	if got := vm.IncompleteCount(); got != 2 {
		t.Fatalf("IncompleteCount = %d; want 2", got)
	}
}

func TestViewModelHideCompletedToggle(t *testing.T) {
	vm := NewViewModel()
	now := time.Now()

	// insert "Buy milk", unchecked
	vm.Apply(&ws.Envelope{Type: ws.MsgAdded, Task: vmTask(1, "Buy milk", now, false)})

	if got := vm.Visible(true); len(got) != 1 || got[0].Text != "Buy milk" {
		t.Fatalf("unchecked task should survive hide-completed, got %v", got)
	}

	// setChecked(id, true) → hidden only behind the toggle
	vm.Apply(&ws.Envelope{Type: ws.MsgChanged, Task: vmTask(1, "Buy milk", now, true)})

	if got := vm.Visible(true); len(got) != 0 {
		t.Fatalf("checked task should be hidden by the toggle, got %v", got)
	}
	if got := vm.Visible(false); len(got) != 1 {
		t.Fatalf("checked task should still render without the toggle, got %v", got)
	}
	if got := vm.IncompleteCount(); got != 0 {
		t.Fatalf("IncompleteCount = %d; want 0", got)
	}
}

func TestViewModelEvents(t *testing.T) {
	vm := NewViewModel()
	now := time.Now()

	changes := 0
	vm.OnChange = func() { changes++ }

	vm.Apply(&ws.Envelope{Type: ws.MsgAdded, Task: vmTask(1, "a", now, false)})
	vm.Apply(&ws.Envelope{Type: ws.MsgAdded, Task: vmTask(2, "b", now.Add(time.Second), false)})
	vm.Apply(&ws.Envelope{Type: ws.MsgRemoved, ID: 1})

	tasks := vm.Tasks()
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Fatalf("expected only task 2, got %v", tasks)
	}
	if changes != 3 {
		t.Fatalf("OnChange fired %d times; want 3", changes)
	}

	// removed for an unknown id is a no-op
	vm.Apply(&ws.Envelope{Type: ws.MsgRemoved, ID: 99})
	if len(vm.Tasks()) != 1 {
		t.Fatalf("remove of unknown id must not change state")
	}
}

func TestCanTogglePrivate(t *testing.T) {
	vm := NewViewModel()
	task := vmTask(1, "a", time.Now(), false)

	if vm.CanTogglePrivate(task) {
		t.Fatal("no current user: affordance must be hidden")
	}

	vm.SetCurrentUser(&domain.User{ID: 1, Username: "alice"})
	if !vm.CanTogglePrivate(task) {
		t.Fatal("owner should see the privacy affordance")
	}

	vm.SetCurrentUser(&domain.User{ID: 2, Username: "bob"})
	if vm.CanTogglePrivate(task) {
		t.Fatal("non-owner must not see the privacy affordance")
	}
}
