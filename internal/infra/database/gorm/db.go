package gorm

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"todo-api/pkg/resource"
)

var Db *gorm.DB

// Open connects the GORM handle against the configured postgres instance.
func Open() error {
	host := resource.GetString("app.db.host")
	port := resource.GetString("app.db.port")
	password := resource.GetString("app.db.password")
	username := resource.GetString("app.db.username")
	database := resource.GetString("app.db.database")
	schema := resource.GetString("app.db.schema")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable search_path=%s",
		host, username, password, database, port, schema)

	var err error
	Db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	return nil
}
