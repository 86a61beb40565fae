package widget

import (
	"context"
	"time"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/logging"
	"github.com/bnema/nexus/internal/storage"
)

// Todos manages the task list, oldest first.
type Todos struct {
	store *storage.QuotaSafeStore
	now   func() time.Time
}

// NewTodos creates the todos widget over store.
func NewTodos(store *storage.QuotaSafeStore) *Todos {
	return &Todos{store: store, now: time.Now}
}

// List returns the persisted todos in insertion order.
func (t *Todos) List(ctx context.Context) []entity.Todo {
	var todos []entity.Todo
	if _, err := t.store.Load(entity.TodosKey, &todos); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to load todos")
		return nil
	}
	return todos
}

// Add appends an open todo. Returns false for empty text.
func (t *Todos) Add(ctx context.Context, text string) (entity.Todo, bool) {
	if text == "" {
		return entity.Todo{}, false
	}
	todos := t.List(ctx)
	todo := entity.NewTodo(text, t.now().UnixMilli())
	todos = append(todos, todo)
	if err := t.store.Save(entity.TodosKey, todos); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save todos")
		return entity.Todo{}, false
	}
	return todo, true
}

// Toggle flips the completion state of the todo with the given id.
func (t *Todos) Toggle(ctx context.Context, id string) bool {
	todos := t.List(ctx)
	toggled := false
	for i := range todos {
		if todos[i].ID == id {
			todos[i].Completed = !todos[i].Completed
			toggled = true
			break
		}
	}
	if !toggled {
		return false
	}
	if err := t.store.Save(entity.TodosKey, todos); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save todos")
		return false
	}
	return true
}

// Remove deletes the todo with the given id.
func (t *Todos) Remove(ctx context.Context, id string) bool {
	todos := t.List(ctx)
	filtered := todos[:0:0]
	removed := false
	for _, todo := range todos {
		if todo.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, todo)
	}
	if !removed {
		return false
	}
	if err := t.store.Save(entity.TodosKey, filtered); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save todos")
		return false
	}
	return true
}
