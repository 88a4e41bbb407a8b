package client

import (
	"sort"
	"sync"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/ws"
)

// ViewModel maintains the reactive projections of the task feed for one
// viewer: the visible task list ordered newest first, the incomplete count,
// and the current user. It is a plain state machine over feed messages so
// it can be driven by a live websocket or directly by tests.
type ViewModel struct {
	mu    sync.RWMutex
	tasks map[int64]*domain.Task

	currentUser *domain.User

	// OnChange, if set, runs after every applied snapshot or event, outside
	// the view-model lock.
	OnChange func()
}

func NewViewModel() *ViewModel {
	return &ViewModel{tasks: make(map[int64]*domain.Task)}
}

// SetCurrentUser stores the authenticated user projection.
func (vm *ViewModel) SetCurrentUser(u *domain.User) {
	vm.mu.Lock()
	vm.currentUser = u
	vm.mu.Unlock()
	vm.notify()
}

func (vm *ViewModel) CurrentUser() *domain.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.currentUser
}

// Apply consumes one feed message and updates the projections. Unknown
// message types are ignored; a removed event for an unknown id is a no-op
// (the event may race the snapshot it is already absent from).
func (vm *ViewModel) Apply(env *ws.Envelope) {
	vm.mu.Lock()
	switch env.Type {
	case ws.MsgSnapshot:
		vm.tasks = make(map[int64]*domain.Task, len(env.Tasks))
		for _, t := range env.Tasks {
			vm.tasks[t.ID] = t
		}
	case ws.MsgAdded, ws.MsgChanged:
		if env.Task != nil {
			vm.tasks[env.Task.ID] = env.Task
		}
	case ws.MsgRemoved:
		delete(vm.tasks, env.ID)
	default:
		vm.mu.Unlock()
		return
	}
	vm.mu.Unlock()
	vm.notify()
}

// Tasks returns the visible set ordered by creation time descending.
func (vm *ViewModel) Tasks() []*domain.Task {
	return vm.Visible(false)
}

// Visible returns the render list: all tasks, or only unchecked ones when
// the hide-completed toggle is on. Ordered newest first.
func (vm *ViewModel) Visible(hideChecked bool) []*domain.Task {
	vm.mu.RLock()
	res := make([]*domain.Task, 0, len(vm.tasks))
	for _, t := range vm.tasks {
		if hideChecked && t.Checked {
			continue
		}
		res = append(res, t)
	}
	vm.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res
}

// IncompleteCount counts visible tasks where checked is not true.
func (vm *ViewModel) IncompleteCount() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	n := 0
	for _, t := range vm.tasks {
		if !t.Checked {
			n++
		}
	}
	return n
}

// CanTogglePrivate reports whether the current user owns the task, which is
// what gates the privacy affordance in a UI.
func (vm *ViewModel) CanTogglePrivate(t *domain.Task) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.currentUser != nil && t != nil && t.OwnerID == vm.currentUser.ID
}

func (vm *ViewModel) notify() {
	if vm.OnChange != nil {
		vm.OnChange()
	}
}
