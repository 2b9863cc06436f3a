package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 2000

	ListDefaultLimit = 50
	ListMaxLimit     = 200
)

// NewTodoDTO is the creation payload. Id and timestamps are storage-assigned.
type NewTodoDTO struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTodoDTO is the partial-update payload. Every field is tri-state:
// an absent key leaves the stored value untouched, an explicit null clears
// the field, a value replaces it. Title is not nullable.
type UpdateTodoDTO struct {
	Title       Patch[string]    `json:"title,omitzero"`
	Description Patch[string]    `json:"description,omitzero"`
	Completed   Patch[bool]      `json:"completed,omitzero"`
	DueDate     Patch[time.Time] `json:"due_date,omitzero"`
}

// ListQuery carries pagination and filtering for todo listings. The
// controller fills it from query parameters by hand so out-of-range values
// can be clamped instead of rejected.
type ListQuery struct {
	Limit     *int
	Offset    *int
	Completed *bool
}

// LimitOrDefault returns the effective page size, defaulting to 50 and
// clamped into 1..200.
func (q ListQuery) LimitOrDefault() int {
	limit := ListDefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit > ListMaxLimit {
		limit = ListMaxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// OffsetOrDefault returns the effective offset, never negative.
func (q ListQuery) OffsetOrDefault() int {
	if q.Offset == nil || *q.Offset < 0 {
		return 0
	}
	return *q.Offset
}

// ValidateNewTodo checks field constraints before a create reaches storage.
func ValidateNewTodo(dto NewTodoDTO) error {
	if !titleLengthOK(dto.Title) {
		return NewValidationError("title must be 1..=200 characters")
	}
	if dto.Description != nil && utf8.RuneCountInString(*dto.Description) > DescriptionMaxLength {
		return NewValidationError("description must be <= 2000 characters")
	}
	return nil
}

// ValidateUpdateTodo checks field constraints on the present fields of a
// partial update. A null title is rejected: the column is NOT NULL.
func ValidateUpdateTodo(dto UpdateTodoDTO) error {
	if dto.Title.Present {
		if !dto.Title.Valid {
			return NewValidationError("title cannot be null")
		}
		if !titleLengthOK(dto.Title.Value) {
			return NewValidationError("title must be 1..=200 characters")
		}
	}
	if dto.Description.Present && dto.Description.Valid &&
		utf8.RuneCountInString(dto.Description.Value) > DescriptionMaxLength {
		return NewValidationError("description must be <= 2000 characters")
	}
	return nil
}

func titleLengthOK(title string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(title))
	return length >= 1 && length <= TitleMaxLength
}
