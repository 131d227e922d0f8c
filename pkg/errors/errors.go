package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotSignedIn          = errors.New("not signed in")
	ErrLoginPageChanged     = errors.New("login page markup changed")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrNotAuthorized        = errors.New("signed in, but the account is not a teacher in Ladok")
	ErrStudentNotFound      = errors.New("student not found")
	ErrNoMatchingEnrollment = errors.New("no matching course enrollment")
	ErrNoMatchingComponent  = errors.New("no matching course component")
	ErrFileNotFound         = errors.New("file not found")
	ErrInvalidFileFormat    = errors.New("invalid file format")
	ErrSchemaValidation     = errors.New("schema validation failed")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// WriteError is returned when Ladok rejects a result create or update call.
// Ladok does not distinguish concurrency conflicts from permission problems
// or malformed payloads in the response, so neither do we.
type WriteError struct {
	PersonNr  string
	Component string
	Grade     string
	Date      string
	Body      string
}

func (e WriteError) Error() string {
	return fmt.Sprintf("could not report result %s %s: %s %s\n%s",
		e.PersonNr, e.Component, e.Grade, e.Date, e.Body)
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}
