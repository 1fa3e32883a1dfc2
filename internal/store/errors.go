package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsage          = errors.New("usage")
	ErrParse          = errors.New("parse")
	ErrInvalidIndex   = errors.New("invalid index")
	ErrConflict       = errors.New("conflict")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalid        = errors.New("invalid")
	ErrReadOnly       = errors.New("read-only")
	ErrPersistence    = errors.New("persistence")
)

// Error carries a message meant for the user. It satisfies errors.Is(err, Kind).
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if strings.TrimSpace(e.Msg) == "" && e.Kind != nil {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Is(target error) bool {
	return e != nil && target == e.Kind
}

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

const msgInvalidIndex = "Not a valid task number!"

func invalidIndex() *Error {
	return NewError(ErrInvalidIndex, msgInvalidIndex)
}

// ConflictError lists the events a new event overlaps with.
// It still satisfies errors.Is(err, ErrConflict).
type ConflictError struct {
	Conflicts []Task
}

func (e *ConflictError) Error() string {
	if e == nil || len(e.Conflicts) == 0 {
		return "Scheduling conflict detected!"
	}
	var b strings.Builder
	b.WriteString("Scheduling conflict detected! This event overlaps with:")
	for _, t := range e.Conflicts {
		b.WriteString("\n  - ")
		b.WriteString(t.Description)
	}
	return b.String()
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// LineError describes a stored record that could not be read back.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

func (e *LineError) Is(target error) bool {
	return target == ErrPersistence
}
