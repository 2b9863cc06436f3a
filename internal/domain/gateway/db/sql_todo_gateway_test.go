package db

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"todo-api/internal/domain/model"
	"todo-api/internal/infra/database/sqldb"
)

// openTestDB opens an in-memory sqlite handle restricted to one connection,
// so every statement sees the same database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	handle, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	handle.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = handle.Close() })

	if err := sqldb.Migrate(handle); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return handle
}

func strPtr(s string) *string { return &s }

func TestSQLGatewayCreateThenFind(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	created, err := gateway.Create(model.NewTodoDTO{
		Title:       "buy groceries",
		Description: strPtr("milk and eggs"),
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == 0 {
		t.Error("id not assigned")
	}
	if created.Completed {
		t.Error("new todo must not be completed")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("timestamps differ on create: %v vs %v", created.CreatedAt, created.UpdatedAt)
	}

	found, err := gateway.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("created todo not found")
	}
	if found.Title != "buy groceries" {
		t.Errorf("title: got %q", found.Title)
	}
	if found.Description == nil || *found.Description != "milk and eggs" {
		t.Errorf("description: got %v", found.Description)
	}
	if found.DueDate == nil || !found.DueDate.Equal(due) {
		t.Errorf("due date: got %v, want %v", found.DueDate, due)
	}
}

func TestSQLGatewayCreateSurvivesImmediateDelete(t *testing.T) {
	handle := openTestDB(t)

	// Simulates another connection deleting the row between the insert and
	// any follow-up statement. Create must still return the full entity.
	if _, err := handle.Exec(`
		CREATE TRIGGER wipe_after_insert AFTER INSERT ON todos
		BEGIN
			DELETE FROM todos WHERE id = NEW.id;
		END`); err != nil {
		t.Fatalf("failed to create trigger: %v", err)
	}

	gateway := NewSQLTodoGateway(handle)
	created, err := gateway.Create(model.NewTodoDTO{Title: "fleeting"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created == nil {
		t.Fatal("Create returned no entity")
	}
	if created.ID == 0 {
		t.Error("id not assigned")
	}
	if created.Title != "fleeting" {
		t.Errorf("title: got %q", created.Title)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("timestamps differ on create: %v vs %v", created.CreatedAt, created.UpdatedAt)
	}
}

func TestSQLGatewayCreateRejectsInvalid(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	if _, err := gateway.Create(model.NewTodoDTO{Title: ""}); !model.IsValidation(err) {
		t.Errorf("empty title: got %v, want validation error", err)
	}

	count, err := gateway.CountAll(nil)
	if err != nil {
		t.Fatalf("CountAll failed: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected create persisted a row: count=%d", count)
	}
}

func TestSQLGatewayFindByIDAbsent(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	found, err := gateway.FindByID(42)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found != nil {
		t.Errorf("absent id: got %v, want nil", found)
	}
}

func TestSQLGatewayUpdateTriState(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	created, err := gateway.Create(model.NewTodoDTO{
		Title:       "write report",
		Description: strPtr("quarterly numbers"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Explicit null clears the description, absent title keeps its value.
	updated, err := gateway.Update(created.ID, model.UpdateTodoDTO{
		Description: model.PatchNull[string](),
		Completed:   model.PatchValue(true),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != nil {
		t.Errorf("description not cleared: %v", *updated.Description)
	}
	if updated.Title != "write report" {
		t.Errorf("absent title changed: %q", updated.Title)
	}
	if !updated.Completed {
		t.Error("completed not set")
	}

	// An absent description leaves the cleared value alone.
	updated, err = gateway.Update(created.ID, model.UpdateTodoDTO{
		Title: model.PatchValue("write annual report"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != nil {
		t.Errorf("absent description resurrected: %v", *updated.Description)
	}
	if updated.Title != "write annual report" {
		t.Errorf("title: got %q", updated.Title)
	}
	if !updated.Completed {
		t.Error("completed flag lost by field-disjoint update")
	}
}

func TestSQLGatewayUpdateAllAbsent(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	created, err := gateway.Create(model.NewTodoDTO{Title: "water plants"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := gateway.Update(created.ID, model.UpdateTodoDTO{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != created.Title || updated.Completed != created.Completed {
		t.Error("all-absent update changed fields")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Errorf("updated_at moved backwards: %v < %v", updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestSQLGatewayUpdateAbsentID(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	updated, err := gateway.Update(99, model.UpdateTodoDTO{Title: model.PatchValue("x")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated != nil {
		t.Errorf("absent id: got %v, want nil", updated)
	}
}

func TestSQLGatewayUpdateRejectsNullTitle(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	created, err := gateway.Create(model.NewTodoDTO{Title: "keep me"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := gateway.Update(created.ID, model.UpdateTodoDTO{Title: model.PatchNull[string]()}); !model.IsValidation(err) {
		t.Errorf("null title: got %v, want validation error", err)
	}

	found, err := gateway.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Title != "keep me" {
		t.Errorf("rejected update mutated the row: %q", found.Title)
	}
}

func TestSQLGatewayFindAllPagination(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	titles := []string{"one", "two", "three", "four", "five"}
	for _, title := range titles {
		if _, err := gateway.Create(model.NewTodoDTO{Title: title}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	limit, offset := 2, 2
	page, err := gateway.FindAll(model.ListQuery{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size: got %d, want 2", len(page))
	}
	if page[0].ID != 3 || page[1].ID != 4 {
		t.Errorf("page ids: got %d,%d, want 3,4", page[0].ID, page[1].ID)
	}
}

func TestSQLGatewayFindAllCompletedFilter(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	first, _ := gateway.Create(model.NewTodoDTO{Title: "done"})
	if _, err := gateway.Create(model.NewTodoDTO{Title: "pending"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := gateway.Update(first.ID, model.UpdateTodoDTO{Completed: model.PatchValue(true)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	completed := true
	todos, err := gateway.FindAll(model.ListQuery{Completed: &completed})
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != first.ID {
		t.Errorf("completed filter: got %v", todos)
	}

	completed = false
	todos, err = gateway.FindAll(model.ListQuery{Completed: &completed})
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "pending" {
		t.Errorf("pending filter: got %v", todos)
	}
}

func TestSQLGatewayDelete(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	created, err := gateway.Create(model.NewTodoDTO{Title: "temporary"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := gateway.DeleteByID(created.ID)
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if !deleted {
		t.Error("existing row reported as absent")
	}

	found, err := gateway.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found != nil {
		t.Error("deleted row still visible")
	}

	deleted, err = gateway.DeleteByID(created.ID)
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if deleted {
		t.Error("second delete reported success")
	}
}

func TestSQLGatewayCountOverdue(t *testing.T) {
	gateway := NewSQLTodoGateway(openTestDB(t))

	now := time.Now().UTC().Truncate(time.Second)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	overdueRow, _ := gateway.Create(model.NewTodoDTO{Title: "late", DueDate: &past})
	if _, err := gateway.Create(model.NewTodoDTO{Title: "early", DueDate: &future}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := gateway.Create(model.NewTodoDTO{Title: "no due date"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	count, err := gateway.CountOverdue(now)
	if err != nil {
		t.Fatalf("CountOverdue failed: %v", err)
	}
	if count != 1 {
		t.Errorf("overdue count: got %d, want 1", count)
	}

	// Completing the late todo removes it from the overdue count.
	if _, err := gateway.Update(overdueRow.ID, model.UpdateTodoDTO{Completed: model.PatchValue(true)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	count, err = gateway.CountOverdue(now)
	if err != nil {
		t.Fatalf("CountOverdue failed: %v", err)
	}
	if count != 0 {
		t.Errorf("overdue count after completion: got %d, want 0", count)
	}
}
