package model

import (
	"time"

	"todo-api/internal/domain/entity"
)

// TodoEventType identifies the mutation that produced an event.
type TodoEventType string

const (
	TodoCreated TodoEventType = "todo.created"
	TodoUpdated TodoEventType = "todo.updated"
	TodoDeleted TodoEventType = "todo.deleted"
	TodoOverdue TodoEventType = "todo.overdue"
)

// TodoEvent is the notification published to the queue and webhook after a
// successful mutation, and in batches by the overdue reminder schedule.
// Deletions carry no entity snapshot.
type TodoEvent struct {
	EventID    string        `json:"eventId"`
	Type       TodoEventType `json:"type"`
	TodoID     int64         `json:"todoId"`
	OccurredAt time.Time     `json:"occurredAt"`
	Todo       *entity.Todo  `json:"todo,omitempty"`
}
