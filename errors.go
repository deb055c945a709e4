package relational

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	// ErrInvalidArgument is returned when the mapper or a relation is built
	// from values it cannot use.
	ErrInvalidArgument = errors.New("relational: invalid argument")

	// ErrNoRelation is returned when no join can be inferred between two tables.
	ErrNoRelation = errors.New("relational: no relation between tables")
)

// ArgumentError reports an argument the mapper cannot use: a nil driver,
// or a value passed to Table or Join that is neither a Cond nor a *Relation.
type ArgumentError struct {
	Func string // Function that received the argument
	Arg  any    // The offending argument
	msg  string
}

// Error returns the error string.
func (e *ArgumentError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("relational: %s: %s", e.Func, e.msg)
	}
	return fmt.Sprintf("relational: %s: unexpected argument of type %T", e.Func, e.Arg)
}

// Is reports whether the target error matches ErrInvalidArgument.
func (e *ArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

// NewArgumentError returns a new ArgumentError for the given function.
func NewArgumentError(fn string, arg any, msg string) *ArgumentError {
	return &ArgumentError{Func: fn, Arg: arg, msg: msg}
}

// IsArgumentError returns true if the error is an ArgumentError.
func IsArgumentError(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentError
	return errors.As(err, &e)
}

// RelationInferenceError reports that the naming style and the table
// columns do not describe any relationship between Parent and Child.
type RelationInferenceError struct {
	Parent string
	Child  string
	Err    error // Inspection error, if inspection failed
}

// Error returns the error string.
func (e *RelationInferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("relational: infer relation %s -> %s: %v", e.Parent, e.Child, e.Err)
	}
	return fmt.Sprintf("relational: no relation between %q and %q", e.Parent, e.Child)
}

// Unwrap returns the underlying error.
func (e *RelationInferenceError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ErrNoRelation.
func (e *RelationInferenceError) Is(err error) bool {
	return err == ErrNoRelation
}

// IsRelationInferenceError returns true if the error is a RelationInferenceError.
func IsRelationInferenceError(err error) bool {
	if err == nil {
		return false
	}
	var e *RelationInferenceError
	return errors.As(err, &e)
}

// QueryError wraps an error returned by the store while fetching.
type QueryError struct {
	Table string // Root table of the fetched relation
	Query string // Statement text
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("relational: querying %s: %v", e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps an error returned by the store while flushing.
type MutationError struct {
	Table string // Table being written
	Op    string // Operation (insert, update, delete, begin, commit)
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("relational: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("relational: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err error // Error returned by Rollback
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("relational: rollback failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// rollback rolls back tx and joins a rollback failure onto err.
func rollback(tx interface{ Rollback() error }, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return errors.Join(err, &RollbackError{Err: rerr})
	}
	return err
}

// PathError reports a malformed path expression.
type PathError struct {
	Expr string
	Pos  int
	Msg  string
}

// Error returns the error string.
func (e *PathError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "relational: path %q", e.Expr)
	if e.Pos >= 0 {
		fmt.Fprintf(&sb, " at offset %d", e.Pos)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	return sb.String()
}

// Is reports whether the target error matches ErrInvalidArgument.
func (e *PathError) Is(err error) bool {
	return err == ErrInvalidArgument
}
