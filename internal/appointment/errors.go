package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrMissingArgument   = errors.New("missing argument")
	ErrNotFound          = errors.New("appointment not found")
	ErrDuplicate         = errors.New("appointment already exists")
)

// Error codes shared by the HTTP envelope and metric labels.
const (
	CodeInvalidTransition = "INVALID_STATE_TRANSITION"
	CodeMissingArgument   = "MISSING_ARGUMENT"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicate         = "DUPLICATE"
	CodeValidation        = "VALIDATION_FAILED"
	CodeInternal          = "INTERNAL"
)

// TransitionError is returned when Op is not an edge out of Status.
type TransitionError struct {
	Op     Operation
	Status Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s an appointment in status %s", ErrInvalidTransition, e.Op, e.Status)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func (e *TransitionError) Code() string { return CodeInvalidTransition }

// ArgumentError is returned when a required parameter is absent.
type ArgumentError struct {
	Op  Operation
	Arg string
}

func (e *ArgumentError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s is required", ErrMissingArgument, e.Arg)
	}
	return fmt.Sprintf("%s: %s requires %s", ErrMissingArgument, e.Op, e.Arg)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrMissingArgument }

func (e *ArgumentError) Code() string { return CodeMissingArgument }

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Code() string { return CodeNotFound }

// DuplicateError reports an id, or an appointment number, already in use.
type DuplicateError struct {
	ID     string
	Number string
}

func (e *DuplicateError) Error() string {
	if e.Number != "" {
		return fmt.Sprintf("%s: %s (number %s)", ErrDuplicate, e.ID, e.Number)
	}
	return fmt.Sprintf("%s: %s", ErrDuplicate, e.ID)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func (e *DuplicateError) Code() string { return CodeDuplicate }

// ValidationError reports a malformed (as opposed to absent) argument.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Code() string { return CodeValidation }

// ErrorCode maps err to its stable code, CodeInternal for anything unrecognised.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrMissingArgument):
		return CodeMissingArgument
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	}
	return CodeInternal
}
