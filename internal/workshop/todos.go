package workshop

import (
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Todos holds tasks and reminders.
type Todos struct {
	w *Workshop
}

// Add validates in and appends it. An empty priority means medium. A todo
// added as completed is stamped with the creation time.
func (t *Todos) Add(in types.TodoItem) (string, error) {
	var id string
	err := t.w.do(types.KeyTodos, "add", func() error {
		rec := in
		now := t.w.stamp()
		rec.ID = generateUUID()
		rec.DateCreated = now
		rec.DateUpdated = nil
		rec.DateCompleted = nil
		if rec.Completed {
			rec.DateCompleted = &now
		}
		if rec.Priority == "" {
			rec.Priority = types.PriorityMedium
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := t.w.todos.Insert(rec); err != nil {
			return err
		}
		id = rec.ID
		t.w.rec.SetRecords(types.KeyTodos, t.w.todos.Len())
		return nil
	})
	return id, err
}

// Update merges patch into the todo with id.
func (t *Todos) Update(id string, patch types.TodoPatch) error {
	return t.w.do(types.KeyTodos, "update", func() error {
		return t.w.todos.Replace(id, func(rec *types.TodoItem) error {
			now := t.w.stamp()
			patch.Apply(rec, now)
			if err := rec.Validate(); err != nil {
				return err
			}
			rec.DateUpdated = &now
			return nil
		})
	})
}

// ToggleComplete flips the completed state of the todo with id and
// returns the new state.
func (t *Todos) ToggleComplete(id string) (bool, error) {
	var done bool
	err := t.w.do(types.KeyTodos, "toggle", func() error {
		return t.w.todos.Replace(id, func(rec *types.TodoItem) error {
			now := t.w.stamp()
			rec.SetCompleted(!rec.Completed, now)
			rec.DateUpdated = &now
			done = rec.Completed
			return nil
		})
	})
	return done, err
}

// Delete removes the todo with id.
func (t *Todos) Delete(id string) error {
	return t.w.do(types.KeyTodos, "delete", func() error {
		if _, err := t.w.todos.Remove(id); err != nil {
			return err
		}
		t.w.rec.SetRecords(types.KeyTodos, t.w.todos.Len())
		return nil
	})
}

// ClearCompleted removes every completed todo and returns how many were
// removed.
func (t *Todos) ClearCompleted() (int, error) {
	var n int
	err := t.w.do(types.KeyTodos, "clear_completed", func() error {
		removed, err := t.w.todos.RemoveWhere(func(rec *types.TodoItem) bool { return rec.Completed })
		if err != nil {
			return err
		}
		n = removed
		t.w.rec.SetRecords(types.KeyTodos, t.w.todos.Len())
		return nil
	})
	return n, err
}

// Get returns the todo with id.
func (t *Todos) Get(id string) (types.TodoItem, error) {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	return t.w.todos.Get(id)
}

// List returns every todo in insertion order.
func (t *Todos) List() []types.TodoItem {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	return t.w.todos.All()
}

// Visible returns the todos passing the current filter.
func (t *Todos) Visible() []types.TodoItem {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	return t.w.todos.Visible()
}

// FilterOptions returns the current filter.
func (t *Todos) FilterOptions() types.TodoFilter {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()
	return t.w.todos.Filter()
}

// SetFilterOptions merges patch into the filter and recomputes the view.
func (t *Todos) SetFilterOptions(patch types.TodoFilterPatch) {
	_ = t.w.do(types.KeyTodos, "filter", func() error {
		t.w.todos.SetFilter(patch.Apply)
		return nil
	})
}

// Subscribe registers fn to run after every change to the todos or their
// filter.
func (t *Todos) Subscribe(fn func()) (unsubscribe func()) {
	return t.w.subscribe(t.w.todos.Subscribe, fn)
}
