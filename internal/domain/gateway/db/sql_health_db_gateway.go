package db

import (
	"context"
	"database/sql"
	"time"

	"todo-api/internal/domain/model"
)

type SQLHealthDBGateway struct {
	DB *sql.DB
}

var _ HealthDBGateway = (*SQLHealthDBGateway)(nil)

func NewSQLHealthDBGateway(db *sql.DB) *SQLHealthDBGateway {
	return &SQLHealthDBGateway{DB: db}
}

func (gateway *SQLHealthDBGateway) Health() model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := gateway.DB.PingContext(ctx)

	if err != nil {
		return model.ComponentHealthStatus{
			Status: model.StatusDown,
			Details: map[string]string{
				"message": err.Error(),
			},
		}
	}

	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"message": string(model.StatusUp),
		},
	}
}
