package sqldb

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"todo-api/pkg/resource"
)

var Db *sql.DB

// Open connects the handle selected by app.db.engine: "sqlite3" (default)
// against app.db.path, or "postgres" against the configured host. The
// sqlite schema migration runs on open; the postgres schema is managed
// externally with the same column contract.
func Open() error {
	engine := resource.GetString("app.db.engine")
	if engine == "" {
		engine = "sqlite3"
	}

	var err error
	switch engine {
	case "sqlite3":
		path := resource.GetString("app.db.path")
		if path == "" {
			path = "todos.db"
		}
		Db, err = sql.Open("sqlite3", path)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database %s: %w", path, err)
		}
		if err = Migrate(Db); err != nil {
			return err
		}
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable search_path=%s",
			resource.GetString("app.db.host"),
			resource.GetString("app.db.port"),
			resource.GetString("app.db.username"),
			resource.GetString("app.db.password"),
			resource.GetString("app.db.database"),
			resource.GetString("app.db.schema"))
		Db, err = sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to open postgres database: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database engine: %s", engine)
	}

	if err = Db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Migrate applies the todos schema. Timestamps and due dates are RFC3339
// text; completed is stored as 0/1.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NULL,
			completed   INTEGER NOT NULL DEFAULT 0,
			due_date    TEXT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply todos schema: %w", err)
		}
	}
	return nil
}
