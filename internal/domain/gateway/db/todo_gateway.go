package db

import (
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// TodoGateway is the only surface through which todos reach persistent
// storage. Reads return nil when the id does not exist; an error always
// means the operation itself failed.
type TodoGateway interface {
	Create(newTodo model.NewTodoDTO) (*entity.Todo, error)
	FindByID(id int64) (*entity.Todo, error)
	FindAll(query model.ListQuery) ([]entity.Todo, error)
	Update(id int64, update model.UpdateTodoDTO) (*entity.Todo, error)
	DeleteByID(id int64) (bool, error)

	CountAll(completed *bool) (int64, error)
	CountOverdue(now time.Time) (int64, error)
}
