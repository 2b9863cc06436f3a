package todo

import (
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

type UseCase interface {
	Create(dto model.NewTodoDTO) (*entity.Todo, error)
	FindByID(id int64) (*entity.Todo, error)
	FindAll(query model.ListQuery) ([]entity.Todo, error)
	Update(id int64, dto model.UpdateTodoDTO) (*entity.Todo, error)
	DeleteByID(id int64) error
	CountOverdue(now time.Time) (int64, error)
	PublishOverdueReminders(now time.Time) (int, error)
	CompletionStats() (*model.TodoStats, error)
}
