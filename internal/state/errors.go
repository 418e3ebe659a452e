package state

import (
	"errors"
	"fmt"
	"strings"
)

// Rejected operations. None of them changes state.
var (
	ErrDuplicateCode      = errors.New("a group with this access code already exists")
	ErrGroupNotFound      = errors.New("no group matches this access code")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrRewardRedeemed     = errors.New("reward already redeemed")
	ErrNotFound           = errors.New("not found")
	ErrWrongAnswer        = errors.New("wrong answer")
	ErrNoGroup            = errors.New("join a study group first")
)

// ValidationError describes rejected input field by field.
type ValidationError struct {
	Fields []FieldProblem
}

// FieldProblem is one rejected field.
type FieldProblem struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Reason))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// NotFoundError names the missing entity. It matches ErrNotFound.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistError wraps a store failure. The in-memory state was left as it
// was before the operation.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
