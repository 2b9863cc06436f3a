package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// Timestamps are persisted as RFC3339 UTC text. Lexicographic order on the
// stored strings matches chronological order, which CountOverdue relies on.
const timeLayout = time.RFC3339

// SQLTodoGateway implements TodoGateway on database/sql against the
// canonical todos schema (SQLite driver by default).
type SQLTodoGateway struct {
	DB *sql.DB
}

var _ TodoGateway = (*SQLTodoGateway)(nil)

func NewSQLTodoGateway(db *sql.DB) *SQLTodoGateway {
	return &SQLTodoGateway{DB: db}
}

func (gateway *SQLTodoGateway) Create(newTodo model.NewTodoDTO) (*entity.Todo, error) {
	if err := model.ValidateNewTodo(newTodo); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	result, err := gateway.DB.Exec(`
		INSERT INTO todos (title, description, completed, due_date, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)`,
		newTodo.Title, newTodo.Description, formatNullableTime(newTodo.DueDate),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, model.NewStorageError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, model.NewStorageError(err)
	}

	// The returned entity is built from the insert inputs; a re-read could
	// race with a concurrent delete and come back empty.
	todo := &entity.Todo{
		ID:          id,
		Title:       newTodo.Title,
		Description: newTodo.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if newTodo.DueDate != nil {
		due := newTodo.DueDate.UTC().Truncate(time.Second)
		todo.DueDate = &due
	}
	return todo, nil
}

func (gateway *SQLTodoGateway) FindByID(id int64) (*entity.Todo, error) {
	row := gateway.DB.QueryRow(`
		SELECT id, title, description, completed, due_date, created_at, updated_at
		FROM todos
		WHERE id = ?`, id)

	todo, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, model.NewStorageError(err)
	}
	return todo, nil
}

func (gateway *SQLTodoGateway) FindAll(query model.ListQuery) ([]entity.Todo, error) {
	stmt := `
		SELECT id, title, description, completed, due_date, created_at, updated_at
		FROM todos`

	args := []interface{}{}
	if query.Completed != nil {
		stmt += " WHERE completed = ?"
		args = append(args, *query.Completed)
	}

	// Stable listing order independent of request concurrency, with the
	// page sliced inside the engine so no more than limit rows are loaded.
	stmt += " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, query.LimitOrDefault(), query.OffsetOrDefault())

	rows, err := gateway.DB.Query(stmt, args...)
	if err != nil {
		return nil, model.NewStorageError(err)
	}
	defer rows.Close()

	todos := make([]entity.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, model.NewStorageError(err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorageError(err)
	}
	return todos, nil
}

func (gateway *SQLTodoGateway) Update(id int64, update model.UpdateTodoDTO) (*entity.Todo, error) {
	if err := model.ValidateUpdateTodo(update); err != nil {
		return nil, err
	}

	// A single UPDATE applies every present field atomically; the row is
	// never observable with only part of the patch applied. Rows affected
	// doubles as the existence check.
	stmt := "UPDATE todos SET updated_at = ?"
	now := time.Now().UTC().Truncate(time.Second)
	args := []interface{}{now.Format(timeLayout)}

	if update.Title.Present {
		stmt += ", title = ?"
		args = append(args, update.Title.Value)
	}
	if update.Description.Present {
		if update.Description.Valid {
			stmt += ", description = ?"
			args = append(args, update.Description.Value)
		} else {
			stmt += ", description = NULL"
		}
	}
	if update.Completed.Present {
		stmt += ", completed = ?"
		args = append(args, update.Completed.Value)
	}
	if update.DueDate.Present {
		if update.DueDate.Valid {
			stmt += ", due_date = ?"
			args = append(args, update.DueDate.Value.UTC().Truncate(time.Second).Format(timeLayout))
		} else {
			stmt += ", due_date = NULL"
		}
	}

	stmt += " WHERE id = ?"
	args = append(args, id)

	result, err := gateway.DB.Exec(stmt, args...)
	if err != nil {
		return nil, model.NewStorageError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, model.NewStorageError(err)
	}
	if affected == 0 {
		return nil, nil
	}

	return gateway.FindByID(id)
}

func (gateway *SQLTodoGateway) DeleteByID(id int64) (bool, error) {
	result, err := gateway.DB.Exec(`DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return false, model.NewStorageError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, model.NewStorageError(err)
	}
	return affected > 0, nil
}

func (gateway *SQLTodoGateway) CountAll(completed *bool) (int64, error) {
	stmt := "SELECT COUNT(*) FROM todos"
	args := []interface{}{}
	if completed != nil {
		stmt += " WHERE completed = ?"
		args = append(args, *completed)
	}

	var count int64
	if err := gateway.DB.QueryRow(stmt, args...).Scan(&count); err != nil {
		return 0, model.NewStorageError(err)
	}
	return count, nil
}

func (gateway *SQLTodoGateway) CountOverdue(now time.Time) (int64, error) {
	var count int64
	err := gateway.DB.QueryRow(`
		SELECT COUNT(*)
		FROM todos
		WHERE completed = 0 AND due_date IS NOT NULL AND due_date < ?`,
		now.UTC().Format(timeLayout)).Scan(&count)
	if err != nil {
		return 0, model.NewStorageError(err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodo(row rowScanner) (*entity.Todo, error) {
	var todo entity.Todo
	var description sql.NullString
	var dueDate sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&todo.ID, &todo.Title, &description, &todo.Completed,
		&dueDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if description.Valid {
		todo.Description = &description.String
	}
	if dueDate.Valid {
		due, err := time.Parse(timeLayout, dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date %q: %w", dueDate.String, err)
		}
		todo.DueDate = &due
	}

	var err error
	if todo.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if todo.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return &todo, nil
}

func formatNullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Truncate(time.Second).Format(timeLayout)
}
