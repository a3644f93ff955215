package core

import (
	"errors"
	"fmt"
)

// error kinds, match them with errors.Is
var (
	ErrHtmlParse     = errors.New("Failed to parse HTML")
	ErrNoMatch       = errors.New("No match")
	ErrUserInput     = errors.New("Rejected user input")
	ErrInvalidOption = errors.New("Invalid option")
)

// Error carries one of the error kinds above plus whatever detail
// mailman rendered for it.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StatusError is returned when mailman answers with a non-2xx status.
type StatusError struct {
	Method string
	Url    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Url, e.Status)
}
