package treepatch

import (
	"errors"
	"fmt"
)

var (
	// ErrMergeConflict is matched by every MergeConflictError
	ErrMergeConflict = errors.New("merge conflict")
	// ErrTypeMismatch is matched by every TypeMismatchError
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrMaxDepth is returned when a tree nests deeper than the configured
	// maximum depth
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
)

// MergeConflictError describes two differences that can't be merged
type MergeConflictError struct {
	// Path is the RFC 6901 pointer to the conflicting value, relative to the
	// root of the merged differences
	Path string
	// Index is the list position the conflict happened at, -1 outside lists
	Index int
	// A & B are the conflicting sub-differences, in argument order
	A, B Difference
	// Reason is a short human readable description
	Reason string
}

func (e *MergeConflictError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	msg := fmt.Sprintf("merge conflict at %s: %s (%s vs %s)", path, e.Reason, describe(e.A), describe(e.B))
	if e.Index >= 0 {
		msg += fmt.Sprintf(", collision on index %d", e.Index)
	}
	return msg
}

// Is makes errors.Is(err, ErrMergeConflict) work
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// TypeMismatchError is returned when a value's shape doesn't fit the
// operation applied to it
type TypeMismatchError struct {
	// Path is the RFC 6901 pointer of the offending value
	Path string
	// Value is the offending value
	Value interface{}
	// Diff is the difference that was being applied, if any
	Diff Difference
	// Reason is a short human readable description
	Reason string
}

func (e *TypeMismatchError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("type mismatch at %s: %s (value of type %T)", path, e.Reason, e.Value)
}

// Is makes errors.Is(err, ErrTypeMismatch) work
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func conflict(path string, index int, a, b Difference, reason string) error {
	return &MergeConflictError{Path: path, Index: index, A: a, B: b, Reason: reason}
}

func mismatch(path string, v interface{}, d Difference, reason string) error {
	return &TypeMismatchError{Path: path, Value: v, Diff: d, Reason: reason}
}
