package db

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// todoRecord mirrors the canonical todos schema column for column; the
// timestamps stay RFC3339 text so both backends share one storage contract.
type todoRecord struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string  `gorm:"column:title"`
	Description *string `gorm:"column:description"`
	Completed   bool    `gorm:"column:completed"`
	DueDate     *string `gorm:"column:due_date"`
	CreatedAt   string  `gorm:"column:created_at"`
	UpdatedAt   string  `gorm:"column:updated_at"`
}

func (todoRecord) TableName() string {
	return "todos"
}

// GormTodoGateway implements TodoGateway through GORM (Postgres backend).
type GormTodoGateway struct {
	DB *gorm.DB
}

var _ TodoGateway = (*GormTodoGateway)(nil)

func NewGormTodoGateway(db *gorm.DB) *GormTodoGateway {
	return &GormTodoGateway{DB: db}
}

func (gateway *GormTodoGateway) Create(newTodo model.NewTodoDTO) (*entity.Todo, error) {
	if err := model.ValidateNewTodo(newTodo); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second).Format(timeLayout)
	record := todoRecord{
		Title:       newTodo.Title,
		Description: newTodo.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if newTodo.DueDate != nil {
		due := newTodo.DueDate.UTC().Truncate(time.Second).Format(timeLayout)
		record.DueDate = &due
	}

	if err := gateway.DB.Create(&record).Error; err != nil {
		return nil, model.NewStorageError(err)
	}
	return recordToEntity(record)
}

func (gateway *GormTodoGateway) FindByID(id int64) (*entity.Todo, error) {
	var record todoRecord
	err := gateway.DB.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError(err)
	}
	return recordToEntity(record)
}

func (gateway *GormTodoGateway) FindAll(query model.ListQuery) ([]entity.Todo, error) {
	tx := gateway.DB.Model(&todoRecord{})
	if query.Completed != nil {
		tx = tx.Where("completed = ?", *query.Completed)
	}

	var records []todoRecord
	err := tx.Order("id ASC").
		Limit(query.LimitOrDefault()).
		Offset(query.OffsetOrDefault()).
		Find(&records).Error
	if err != nil {
		return nil, model.NewStorageError(err)
	}

	todos := make([]entity.Todo, 0, len(records))
	for _, record := range records {
		todo, err := recordToEntity(record)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, nil
}

func (gateway *GormTodoGateway) Update(id int64, update model.UpdateTodoDTO) (*entity.Todo, error) {
	if err := model.ValidateUpdateTodo(update); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second).Format(timeLayout)
	changes := map[string]interface{}{"updated_at": now}

	if update.Title.Present {
		changes["title"] = update.Title.Value
	}
	if update.Description.Present {
		if update.Description.Valid {
			changes["description"] = update.Description.Value
		} else {
			changes["description"] = nil
		}
	}
	if update.Completed.Present {
		changes["completed"] = update.Completed.Value
	}
	if update.DueDate.Present {
		if update.DueDate.Valid {
			changes["due_date"] = update.DueDate.Value.UTC().Truncate(time.Second).Format(timeLayout)
		} else {
			changes["due_date"] = nil
		}
	}

	result := gateway.DB.Model(&todoRecord{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return nil, model.NewStorageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return gateway.FindByID(id)
}

func (gateway *GormTodoGateway) DeleteByID(id int64) (bool, error) {
	result := gateway.DB.Delete(&todoRecord{}, "id = ?", id)
	if result.Error != nil {
		return false, model.NewStorageError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (gateway *GormTodoGateway) CountAll(completed *bool) (int64, error) {
	tx := gateway.DB.Model(&todoRecord{})
	if completed != nil {
		tx = tx.Where("completed = ?", *completed)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, model.NewStorageError(err)
	}
	return count, nil
}

func (gateway *GormTodoGateway) CountOverdue(now time.Time) (int64, error) {
	var count int64
	err := gateway.DB.Model(&todoRecord{}).
		Where("completed = ? AND due_date IS NOT NULL AND due_date < ?",
			false, now.UTC().Format(timeLayout)).
		Count(&count).Error
	if err != nil {
		return 0, model.NewStorageError(err)
	}
	return count, nil
}

func recordToEntity(record todoRecord) (*entity.Todo, error) {
	todo := entity.Todo{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Completed:   record.Completed,
	}

	if record.DueDate != nil {
		due, err := time.Parse(timeLayout, *record.DueDate)
		if err != nil {
			return nil, model.NewStorageError(err)
		}
		todo.DueDate = &due
	}

	var err error
	if todo.CreatedAt, err = time.Parse(timeLayout, record.CreatedAt); err != nil {
		return nil, model.NewStorageError(err)
	}
	if todo.UpdatedAt, err = time.Parse(timeLayout, record.UpdatedAt); err != nil {
		return nil, model.NewStorageError(err)
	}
	return &todo, nil
}
