package sql

import (
	"errors"
	"strings"
)

// sqlStateError is implemented by drivers exposing the SQLSTATE code,
// such as pgx (*pgconn.PgError) and lib/pq.
type sqlStateError interface {
	SQLState() string
}

// errorNumberer is implemented by drivers exposing numeric error codes.
type errorNumberer interface {
	Number() uint16
}

// SQLSTATE codes (PostgreSQL, Class 23 and 42).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgUndefinedTable      = "42P01"
)

// MySQL error numbers.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451
	mysqlForeignKeyChild  = 1452
	mysqlNoSuchTable      = 1146
)

// classifier describes how one class of driver errors is recognised.
type classifier struct {
	states   []string
	numbers  []uint16
	messages []string
}

func (c classifier) match(err error) bool {
	if err == nil {
		return false
	}
	// Drivers reporting a code are trusted over their message text.
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() != "" {
		for _, s := range c.states {
			if e.SQLState() == s {
				return true
			}
		}
		return false
	}
	if e, ok := asError[errorNumberer](err); ok {
		for _, n := range c.numbers {
			if e.Number() == n {
				return true
			}
		}
		return false
	}
	// Fallback to string matching for drivers that don't implement interfaces.
	msg := err.Error()
	for _, m := range c.messages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

var (
	uniqueViolation = classifier{
		states:   []string{pgUniqueViolation},
		numbers:  []uint16{mysqlDuplicateEntry},
		messages: []string{"Error 1062", "violates unique constraint", "UNIQUE constraint failed"},
	}
	foreignKeyViolation = classifier{
		states:   []string{pgForeignKeyViolation},
		numbers:  []uint16{mysqlForeignKeyParent, mysqlForeignKeyChild},
		messages: []string{"Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"},
	}
	undefinedTable = classifier{
		states:   []string{pgUndefinedTable},
		numbers:  []uint16{mysqlNoSuchTable},
		messages: []string{"Error 1146", "no such table", "does not exist"},
	}
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) || IsForeignKeyConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	return uniqueViolation.match(err)
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	return foreignKeyViolation.match(err)
}

// IsTableNotFoundError reports if the error resulted from a statement
// referencing a table that does not exist.
func IsTableNotFoundError(err error) bool {
	return undefinedTable.match(err)
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
