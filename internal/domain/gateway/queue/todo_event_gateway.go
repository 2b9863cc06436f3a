package queue

import (
	"todo-api/internal/domain/model"
)

// TodoEventGateway publishes lifecycle events to the todo events queue.
type TodoEventGateway interface {
	PublishEvent(event model.TodoEvent) error
	PublishEvents(events []model.TodoEvent) (*BatchResult, error)
}

type todoEventGatewayImpl struct {
	sender    Sender
	queueName string
}

func NewTodoEventGateway(sender Sender, queueName string) TodoEventGateway {
	return &todoEventGatewayImpl{
		sender:    sender,
		queueName: queueName,
	}
}

func (g *todoEventGatewayImpl) PublishEvent(event model.TodoEvent) error {
	return g.sender.SendMessage(g.queueName, event)
}

func (g *todoEventGatewayImpl) PublishEvents(events []model.TodoEvent) (*BatchResult, error) {
	messages := make([]BatchMessage, 0, len(events))
	for _, event := range events {
		messages = append(messages, BatchMessage{
			MessageID: event.EventID,
			Body:      event,
		})
	}
	return g.sender.SendMessageBatch(g.queueName, messages)
}
