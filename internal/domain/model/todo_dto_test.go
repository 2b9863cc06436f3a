package model

import (
	"strings"
	"testing"
)

func TestValidateNewTodoTitleBounds(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"single char", "a", false},
		{"max length", strings.Repeat("a", 200), false},
		{"over max", strings.Repeat("a", 201), true},
		{"multibyte max", strings.Repeat("ü", 200), false},
		{"multibyte over max", strings.Repeat("ü", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewTodo(NewTodoDTO{Title: tt.title})
			if (err != nil) != tt.wantErr {
				t.Errorf("got err=%v, wantErr=%v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("error kind: got %v, want validation", err)
			}
		})
	}
}

func TestValidateNewTodoDescriptionBounds(t *testing.T) {
	ok := strings.Repeat("d", 2000)
	tooLong := strings.Repeat("d", 2001)

	if err := ValidateNewTodo(NewTodoDTO{Title: "t", Description: &ok}); err != nil {
		t.Errorf("2000 chars: got %v, want nil", err)
	}
	if err := ValidateNewTodo(NewTodoDTO{Title: "t", Description: &tooLong}); !IsValidation(err) {
		t.Errorf("2001 chars: got %v, want validation error", err)
	}
}

func TestValidateUpdateTodo(t *testing.T) {
	if err := ValidateUpdateTodo(UpdateTodoDTO{}); err != nil {
		t.Errorf("all absent: got %v, want nil", err)
	}

	if err := ValidateUpdateTodo(UpdateTodoDTO{Title: PatchNull[string]()}); !IsValidation(err) {
		t.Errorf("null title: got %v, want validation error", err)
	}

	if err := ValidateUpdateTodo(UpdateTodoDTO{Title: PatchValue("")}); !IsValidation(err) {
		t.Errorf("empty title: got %v, want validation error", err)
	}

	if err := ValidateUpdateTodo(UpdateTodoDTO{Description: PatchNull[string]()}); err != nil {
		t.Errorf("null description: got %v, want nil", err)
	}

	long := strings.Repeat("d", 2001)
	if err := ValidateUpdateTodo(UpdateTodoDTO{Description: PatchValue(long)}); !IsValidation(err) {
		t.Errorf("long description: got %v, want validation error", err)
	}
}

func TestListQueryDefaults(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name       string
		query      ListQuery
		wantLimit  int
		wantOffset int
	}{
		{"defaults", ListQuery{}, 50, 0},
		{"explicit", ListQuery{Limit: intPtr(10), Offset: intPtr(20)}, 10, 20},
		{"limit clamped high", ListQuery{Limit: intPtr(500)}, 200, 0},
		{"limit clamped low", ListQuery{Limit: intPtr(0)}, 1, 0},
		{"negative limit", ListQuery{Limit: intPtr(-3)}, 1, 0},
		{"negative offset", ListQuery{Offset: intPtr(-5)}, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.LimitOrDefault(); got != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", got, tt.wantLimit)
			}
			if got := tt.query.OffsetOrDefault(); got != tt.wantOffset {
				t.Errorf("offset: got %d, want %d", got, tt.wantOffset)
			}
		})
	}
}
