package db

import (
	"sort"
	"sync"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// MemoryTodoGateway implements TodoGateway without a storage engine. It
// backs usecase tests and honors the same contract as the SQL gateways,
// including validation and nil-for-absent reads.
type MemoryTodoGateway struct {
	mutex  sync.Mutex
	todos  map[int64]entity.Todo
	nextID int64
}

var _ TodoGateway = (*MemoryTodoGateway)(nil)

func NewMemoryTodoGateway() *MemoryTodoGateway {
	return &MemoryTodoGateway{
		todos:  make(map[int64]entity.Todo),
		nextID: 1,
	}
}

func (gateway *MemoryTodoGateway) Create(newTodo model.NewTodoDTO) (*entity.Todo, error) {
	if err := model.ValidateNewTodo(newTodo); err != nil {
		return nil, err
	}

	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	now := time.Now().UTC().Truncate(time.Second)
	todo := entity.Todo{
		ID:        gateway.nextID,
		Title:     newTodo.Title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if newTodo.Description != nil {
		description := *newTodo.Description
		todo.Description = &description
	}
	if newTodo.DueDate != nil {
		due := newTodo.DueDate.UTC().Truncate(time.Second)
		todo.DueDate = &due
	}

	gateway.nextID++
	gateway.todos[todo.ID] = todo
	return copyTodo(todo), nil
}

func (gateway *MemoryTodoGateway) FindByID(id int64) (*entity.Todo, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	todo, ok := gateway.todos[id]
	if !ok {
		return nil, nil
	}
	return copyTodo(todo), nil
}

func (gateway *MemoryTodoGateway) FindAll(query model.ListQuery) ([]entity.Todo, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	ids := make([]int64, 0, len(gateway.todos))
	for id, todo := range gateway.todos {
		if query.Completed != nil && todo.Completed != *query.Completed {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	offset := query.OffsetOrDefault()
	limit := query.LimitOrDefault()
	if offset >= len(ids) {
		return []entity.Todo{}, nil
	}
	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}

	todos := make([]entity.Todo, 0, len(ids))
	for _, id := range ids {
		todos = append(todos, *copyTodo(gateway.todos[id]))
	}
	return todos, nil
}

func (gateway *MemoryTodoGateway) Update(id int64, update model.UpdateTodoDTO) (*entity.Todo, error) {
	if err := model.ValidateUpdateTodo(update); err != nil {
		return nil, err
	}

	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	todo, ok := gateway.todos[id]
	if !ok {
		return nil, nil
	}

	if update.Title.Present {
		todo.Title = update.Title.Value
	}
	if update.Description.Present {
		if update.Description.Valid {
			description := update.Description.Value
			todo.Description = &description
		} else {
			todo.Description = nil
		}
	}
	if update.Completed.Present {
		todo.Completed = update.Completed.Value
	}
	if update.DueDate.Present {
		if update.DueDate.Valid {
			due := update.DueDate.Value.UTC().Truncate(time.Second)
			todo.DueDate = &due
		} else {
			todo.DueDate = nil
		}
	}
	todo.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	gateway.todos[id] = todo
	return copyTodo(todo), nil
}

func (gateway *MemoryTodoGateway) DeleteByID(id int64) (bool, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	if _, ok := gateway.todos[id]; !ok {
		return false, nil
	}
	delete(gateway.todos, id)
	return true, nil
}

func (gateway *MemoryTodoGateway) CountAll(completed *bool) (int64, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	var count int64
	for _, todo := range gateway.todos {
		if completed == nil || todo.Completed == *completed {
			count++
		}
	}
	return count, nil
}

func (gateway *MemoryTodoGateway) CountOverdue(now time.Time) (int64, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	var count int64
	for _, todo := range gateway.todos {
		if !todo.Completed && todo.DueDate != nil && todo.DueDate.Before(now) {
			count++
		}
	}
	return count, nil
}

func copyTodo(todo entity.Todo) *entity.Todo {
	clone := todo
	if todo.Description != nil {
		description := *todo.Description
		clone.Description = &description
	}
	if todo.DueDate != nil {
		due := *todo.DueDate
		clone.DueDate = &due
	}
	return &clone
}
