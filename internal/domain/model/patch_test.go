package model

import (
	"encoding/json"
	"testing"
)

func TestPatchUnmarshalTriState(t *testing.T) {
	var dto UpdateTodoDTO
	if err := json.Unmarshal([]byte(`{"title":"clean","description":null}`), &dto); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !dto.Title.Present || !dto.Title.Valid {
		t.Errorf("title: got Present=%v Valid=%v, want present value", dto.Title.Present, dto.Title.Valid)
	}
	if dto.Title.Value != "clean" {
		t.Errorf("title value: got %q, want %q", dto.Title.Value, "clean")
	}
	if !dto.Description.Present || dto.Description.Valid {
		t.Errorf("description: got Present=%v Valid=%v, want explicit null", dto.Description.Present, dto.Description.Valid)
	}
	if dto.Completed.Present {
		t.Error("completed: absent key must stay unset")
	}
	if dto.DueDate.Present {
		t.Error("due_date: absent key must stay unset")
	}
}

func TestPatchMarshalRoundTrip(t *testing.T) {
	dto := UpdateTodoDTO{
		Title:       PatchValue("groceries"),
		Description: PatchNull[string](),
	}

	data, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if string(decoded["title"]) != `"groceries"` {
		t.Errorf("title: got %s, want %q", decoded["title"], "groceries")
	}
	if string(decoded["description"]) != "null" {
		t.Errorf("description: got %s, want null", decoded["description"])
	}
	if _, ok := decoded["completed"]; ok {
		t.Error("completed: unset field must be omitted from output")
	}
	if _, ok := decoded["due_date"]; ok {
		t.Error("due_date: unset field must be omitted from output")
	}
}

func TestPatchEmptyBody(t *testing.T) {
	var dto UpdateTodoDTO
	if err := json.Unmarshal([]byte(`{}`), &dto); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if dto.Title.Present || dto.Description.Present || dto.Completed.Present || dto.DueDate.Present {
		t.Error("empty body must leave every field unset")
	}
}
