package todo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/api"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/redis"
)

// Options carries the optional collaborators of the todo usecase. The zero
// value disables caching and event publication.
type Options struct {
	Cache   *redis.Cache
	Events  queue.TodoEventGateway
	Webhook api.WebhookGateway
}

type todoUseCase struct {
	gateway db.TodoGateway
	cache   *redis.Cache
	events  queue.TodoEventGateway
	webhook api.WebhookGateway
}

func NewTodoUseCase(gateway db.TodoGateway, opts Options) UseCase {
	return &todoUseCase{
		gateway: gateway,
		cache:   opts.Cache,
		events:  opts.Events,
		webhook: opts.Webhook,
	}
}

func (uc *todoUseCase) Create(dto model.NewTodoDTO) (*entity.Todo, error) {
	dto.Title = strings.TrimSpace(dto.Title)
	if dto.Description != nil {
		trimmed := strings.TrimSpace(*dto.Description)
		dto.Description = &trimmed
	}

	created, err := uc.gateway.Create(dto)
	if err != nil {
		return nil, err
	}

	uc.publish(model.TodoCreated, created.ID, created)
	return created, nil
}

func (uc *todoUseCase) FindByID(id int64) (*entity.Todo, error) {
	if uc.cache != nil {
		var cached entity.Todo
		found, err := uc.cache.Get(context.Background(), cacheKey(id), &cached)
		if err != nil {
			log.Warnf("todo cache read failed for id %d: %v", id, err)
		} else if found {
			return &cached, nil
		}
	}

	todo, err := uc.gateway.FindByID(id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, model.NewNotFoundError(fmt.Sprintf("todo %d not found", id))
	}

	uc.cacheStore(todo)
	return todo, nil
}

func (uc *todoUseCase) FindAll(query model.ListQuery) ([]entity.Todo, error) {
	return uc.gateway.FindAll(query)
}

func (uc *todoUseCase) Update(id int64, dto model.UpdateTodoDTO) (*entity.Todo, error) {
	if dto.Title.Present && dto.Title.Valid {
		dto.Title.Value = strings.TrimSpace(dto.Title.Value)
	}
	if dto.Description.Present && dto.Description.Valid {
		dto.Description.Value = strings.TrimSpace(dto.Description.Value)
	}

	updated, err := uc.gateway.Update(id, dto)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, model.NewNotFoundError(fmt.Sprintf("todo %d not found", id))
	}

	uc.cacheInvalidate(id)
	uc.publish(model.TodoUpdated, id, updated)
	return updated, nil
}

func (uc *todoUseCase) DeleteByID(id int64) error {
	deleted, err := uc.gateway.DeleteByID(id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewNotFoundError(fmt.Sprintf("todo %d not found", id))
	}

	uc.cacheInvalidate(id)
	uc.publish(model.TodoDeleted, id, nil)
	return nil
}

func (uc *todoUseCase) CountOverdue(now time.Time) (int64, error) {
	return uc.gateway.CountOverdue(now)
}

// PublishOverdueReminders batches one reminder event per open todo past its
// due date and publishes them to the queue in a single batch operation.
// Returns the number of events the queue accepted.
func (uc *todoUseCase) PublishOverdueReminders(now time.Time) (int, error) {
	if uc.events == nil {
		return 0, nil
	}

	var events []model.TodoEvent
	open := false
	limit := model.ListMaxLimit
	for offset := 0; ; offset += limit {
		page, err := uc.gateway.FindAll(model.ListQuery{Limit: &limit, Offset: &offset, Completed: &open})
		if err != nil {
			return 0, err
		}
		for _, item := range page {
			if item.DueDate == nil || !item.DueDate.Before(now) {
				continue
			}
			snapshot := item
			events = append(events, model.TodoEvent{
				EventID:    uuid.NewString(),
				Type:       model.TodoOverdue,
				TodoID:     item.ID,
				OccurredAt: now,
				Todo:       &snapshot,
			})
		}
		if len(page) < limit {
			break
		}
	}

	if len(events) == 0 {
		return 0, nil
	}

	result, err := uc.events.PublishEvents(events)
	if err != nil {
		return 0, err
	}
	if len(result.Failed) > 0 {
		log.Warnf("%d overdue reminder events failed to publish", len(result.Failed))
	}
	return len(result.Successful), nil
}

func (uc *todoUseCase) CompletionStats() (*model.TodoStats, error) {
	now := time.Now().UTC()

	total, err := uc.gateway.CountAll(nil)
	if err != nil {
		return nil, err
	}

	completed := true
	completedCount, err := uc.gateway.CountAll(&completed)
	if err != nil {
		return nil, err
	}

	overdue, err := uc.gateway.CountOverdue(now)
	if err != nil {
		return nil, err
	}

	return &model.TodoStats{
		Total:       total,
		Completed:   completedCount,
		Open:        total - completedCount,
		Overdue:     overdue,
		GeneratedAt: now,
	}, nil
}

// publish fans a lifecycle event out to the queue and webhook. Failures are
// logged only; the mutation has already committed.
func (uc *todoUseCase) publish(eventType model.TodoEventType, id int64, snapshot *entity.Todo) {
	if uc.events == nil && uc.webhook == nil {
		return
	}

	event := model.TodoEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		TodoID:     id,
		OccurredAt: time.Now().UTC(),
		Todo:       snapshot,
	}

	if uc.events != nil {
		if err := uc.events.PublishEvent(event); err != nil {
			log.Warnf("failed to publish %s event for todo %d: %v", eventType, id, err)
		}
	}
	if uc.webhook != nil {
		if err := uc.webhook.NotifyEvent(event); err != nil {
			log.Warnf("failed to notify webhook of %s event for todo %d: %v", eventType, id, err)
		}
	}
}

func (uc *todoUseCase) cacheStore(todo *entity.Todo) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(context.Background(), cacheKey(todo.ID), todo); err != nil {
		log.Warnf("todo cache write failed for id %d: %v", todo.ID, err)
	}
}

func (uc *todoUseCase) cacheInvalidate(id int64) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(context.Background(), cacheKey(id)); err != nil {
		log.Warnf("todo cache invalidation failed for id %d: %v", id, err)
	}
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
