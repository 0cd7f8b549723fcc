package service

import (
	"errors"
	"strings"
)

var (
	ErrUserAlreadyExists = errors.New("User already exists in database")
	ErrUserNotFound      = errors.New("User doesn't exist")
	ErrIncorrectPassword = errors.New("Incorrect password")
	ErrContactNotFound   = errors.New("Contact not found")
	ErrForbidden         = errors.New("Not authorised")
)

const (
	MsgNameRequired = "Name cannot be empty"
	MsgInvalidType  = "Type must be personal or business"

	MsgUserNameRequired = "Name is required"
	MsgPasswordTooLong  = "Please enter a password with 72 or fewer characters"
)

// FieldError describes one failed rule on one request field.
type FieldError struct {
	Field   string
	Message string
	Value   any
}

// ValidationError is returned when input fails a business rule before anything is persisted.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, msg string, value any) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg, Value: value})
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
