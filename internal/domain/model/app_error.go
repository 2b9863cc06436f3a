package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError for the interface layer.
type ErrorKind int

const (
	// KindValidation marks input that violates field constraints.
	KindValidation ErrorKind = iota
	// KindNotFound marks a reference to an id that does not exist.
	KindNotFound
	// KindStorage marks a failure of the underlying storage engine.
	KindStorage
)

// AppError is the typed error crossing the usecase boundary. The controller
// maps kinds to status codes; the kinds are never collapsed into a generic
// failure on the way up.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewStorageError(err error) error {
	return &AppError{Kind: KindStorage, Message: "storage failure", Err: err}
}

func IsValidation(err error) bool {
	return hasKind(err, KindValidation)
}

func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

func IsStorage(err error) bool {
	return hasKind(err, KindStorage)
}

func hasKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
