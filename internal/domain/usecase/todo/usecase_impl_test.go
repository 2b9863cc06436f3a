package todo

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
)

// fakeSender records published messages in place of SQS.
type fakeSender struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	queueName string
	body      any
}

func (s *fakeSender) SendMessage(queueName string, body any) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{queueName: queueName, body: body})
	return nil
}

func (s *fakeSender) SendMessageBatch(queueName string, messages []queue.BatchMessage) (*queue.BatchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := &queue.BatchResult{}
	for _, msg := range messages {
		s.sent = append(s.sent, sentMessage{queueName: queueName, body: msg.Body})
		result.Successful = append(result.Successful, msg.MessageID)
	}
	return result, nil
}

func newTestUseCase(sender *fakeSender) UseCase {
	opts := Options{}
	if sender != nil {
		opts.Events = queue.NewTodoEventGateway(sender, "todo-events")
	}
	return NewTodoUseCase(db.NewMemoryTodoGateway(), opts)
}

func strPtr(s string) *string { return &s }

func TestCreateTrimsFields(t *testing.T) {
	useCase := newTestUseCase(nil)

	created, err := useCase.Create(model.NewTodoDTO{
		Title:       "  buy milk  ",
		Description: strPtr("  2 liters  "),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Title != "buy milk" {
		t.Errorf("title not trimmed: %q", created.Title)
	}
	if created.Description == nil || *created.Description != "2 liters" {
		t.Errorf("description not trimmed: %v", created.Description)
	}
}

func TestCreateRejectsWhitespaceTitle(t *testing.T) {
	useCase := newTestUseCase(nil)

	if _, err := useCase.Create(model.NewTodoDTO{Title: "   "}); !model.IsValidation(err) {
		t.Errorf("whitespace title: got %v, want validation error", err)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	useCase := newTestUseCase(nil)

	_, err := useCase.FindByID(7)
	if !model.IsNotFound(err) {
		t.Errorf("absent id: got %v, want not-found error", err)
	}
}

func TestUpdateTrimsAndMapsNotFound(t *testing.T) {
	useCase := newTestUseCase(nil)

	created, err := useCase.Create(model.NewTodoDTO{Title: "original"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := useCase.Update(created.ID, model.UpdateTodoDTO{
		Title: model.PatchValue("  renamed  "),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("title not trimmed: %q", updated.Title)
	}

	if _, err := useCase.Update(99, model.UpdateTodoDTO{Title: model.PatchValue("x")}); !model.IsNotFound(err) {
		t.Errorf("absent id: got %v, want not-found error", err)
	}
}

func TestDeleteMapsNotFound(t *testing.T) {
	useCase := newTestUseCase(nil)

	created, err := useCase.Create(model.NewTodoDTO{Title: "doomed"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := useCase.DeleteByID(created.ID); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if err := useCase.DeleteByID(created.ID); !model.IsNotFound(err) {
		t.Errorf("second delete: got %v, want not-found error", err)
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	sender := &fakeSender{}
	useCase := newTestUseCase(sender)

	created, err := useCase.Create(model.NewTodoDTO{Title: "track me"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := useCase.Update(created.ID, model.UpdateTodoDTO{Completed: model.PatchValue(true)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := useCase.DeleteByID(created.ID); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}

	if len(sender.sent) != 3 {
		t.Fatalf("events published: got %d, want 3", len(sender.sent))
	}

	wantTypes := []model.TodoEventType{model.TodoCreated, model.TodoUpdated, model.TodoDeleted}
	for i, msg := range sender.sent {
		if msg.queueName != "todo-events" {
			t.Errorf("event %d queue: got %q", i, msg.queueName)
		}
		event, ok := msg.body.(model.TodoEvent)
		if !ok {
			t.Fatalf("event %d body type: %T", i, msg.body)
		}
		if event.Type != wantTypes[i] {
			t.Errorf("event %d type: got %s, want %s", i, event.Type, wantTypes[i])
		}
		if event.TodoID != created.ID {
			t.Errorf("event %d todo id: got %d, want %d", i, event.TodoID, created.ID)
		}
		if event.EventID == "" {
			t.Errorf("event %d missing event id", i)
		}
	}

	// Deletions carry no snapshot, the others do.
	if sender.sent[0].body.(model.TodoEvent).Todo == nil {
		t.Error("created event missing snapshot")
	}
	if sender.sent[2].body.(model.TodoEvent).Todo != nil {
		t.Error("deleted event carries a snapshot")
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	sender := &fakeSender{err: errors.New("queue unavailable")}
	useCase := newTestUseCase(sender)

	created, err := useCase.Create(model.NewTodoDTO{Title: "resilient"})
	if err != nil {
		t.Fatalf("Create failed despite publish error: %v", err)
	}

	// The row committed even though the event did not.
	if _, err := useCase.FindByID(created.ID); err != nil {
		t.Errorf("FindByID failed: %v", err)
	}
}

func TestEventSerialization(t *testing.T) {
	sender := &fakeSender{}
	useCase := newTestUseCase(sender)

	if _, err := useCase.Create(model.NewTodoDTO{Title: "serialize me"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	data, err := json.Marshal(sender.sent[0].body)
	if err != nil {
		t.Fatalf("event not serializable: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["type"] != string(model.TodoCreated) {
		t.Errorf("type field: got %v", decoded["type"])
	}
}

func TestPublishOverdueRemindersBatch(t *testing.T) {
	sender := &fakeSender{}
	useCase := newTestUseCase(sender)

	now := time.Now().UTC().Truncate(time.Second)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	late, err := useCase.Create(model.NewTodoDTO{Title: "late", DueDate: &past})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := useCase.Create(model.NewTodoDTO{Title: "on time", DueDate: &future}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := useCase.Create(model.NewTodoDTO{Title: "undated"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	doneLate, err := useCase.Create(model.NewTodoDTO{Title: "done late", DueDate: &past})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := useCase.Update(doneLate.ID, model.UpdateTodoDTO{Completed: model.PatchValue(true)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Drop the mutation events, only the reminder batch matters here.
	sender.sent = nil

	published, err := useCase.PublishOverdueReminders(now)
	if err != nil {
		t.Fatalf("PublishOverdueReminders failed: %v", err)
	}
	if published != 1 {
		t.Errorf("published: got %d, want 1", published)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("events sent: got %d, want 1", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.queueName != "todo-events" {
		t.Errorf("queue: got %q", msg.queueName)
	}
	event, ok := msg.body.(model.TodoEvent)
	if !ok {
		t.Fatalf("body type: %T", msg.body)
	}
	if event.Type != model.TodoOverdue {
		t.Errorf("type: got %s, want %s", event.Type, model.TodoOverdue)
	}
	if event.TodoID != late.ID {
		t.Errorf("todo id: got %d, want %d", event.TodoID, late.ID)
	}
	if event.EventID == "" {
		t.Error("missing event id")
	}
	if event.Todo == nil || event.Todo.Title != "late" {
		t.Errorf("snapshot: got %v", event.Todo)
	}
}

func TestPublishOverdueRemindersWithoutQueue(t *testing.T) {
	useCase := newTestUseCase(nil)

	past := time.Now().UTC().Add(-time.Hour)
	if _, err := useCase.Create(model.NewTodoDTO{Title: "late", DueDate: &past}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	published, err := useCase.PublishOverdueReminders(time.Now().UTC())
	if err != nil {
		t.Fatalf("PublishOverdueReminders failed: %v", err)
	}
	if published != 0 {
		t.Errorf("published without a queue: got %d", published)
	}
}

func TestCompletionStats(t *testing.T) {
	useCase := newTestUseCase(nil)

	first, err := useCase.Create(model.NewTodoDTO{Title: "one"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := useCase.Create(model.NewTodoDTO{Title: "two"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := useCase.Update(first.ID, model.UpdateTodoDTO{Completed: model.PatchValue(true)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stats, err := useCase.CompletionStats()
	if err != nil {
		t.Fatalf("CompletionStats failed: %v", err)
	}
	if stats.Total != 2 || stats.Completed != 1 || stats.Open != 1 {
		t.Errorf("stats: got %+v", stats)
	}
}
