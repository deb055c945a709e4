package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type numberError struct{ n uint16 }

func (e numberError) Error() string  { return fmt.Sprintf("driver error %d", e.n) }
func (e numberError) Number() uint16 { return e.n }

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres", &pgconn.PgError{Code: "23505", Message: "duplicate key value"}, true},
		{"postgres_other_code", &pgconn.PgError{Code: "23503", Message: "violates unique constraint"}, false},
		{"mysql", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'PRIMARY'"}, true},
		{"mysql_other", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, false},
		{"number", numberError{1062}, true},
		{"number_other", numberError{1146}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: post.id"), true},
		{"wrapped", fmt.Errorf("dialect/sql: exec: %w", &pgconn.PgError{Code: "23505"}), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueConstraintError(tt.err))
		})
	}
}

func TestIsForeignKeyConstraintError(t *testing.T) {
	assert.True(t, IsForeignKeyConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyConstraintError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}))
	assert.True(t, IsForeignKeyConstraintError(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsForeignKeyConstraintError(&pgconn.PgError{Code: "23505"}))

	assert.True(t, IsConstraintError(errors.New("UNIQUE constraint failed: post.id")))
	assert.True(t, IsConstraintError(numberError{1452}))
	assert.False(t, IsConstraintError(errors.New("syntax error")))
}

func TestIsTableNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"postgres", &pgconn.PgError{Code: "42P01", Message: `relation "foo" does not exist`}, true},
		{"postgres_column", &pgconn.PgError{Code: "42703", Message: `column "x" does not exist`}, false},
		{"mysql", &mysql.MySQLError{Number: 1146, Message: "Table 'blog.foo' doesn't exist"}, true},
		{"sqlite", errors.New("SQL logic error: no such table: foo (1)"), true},
		{"wrapped", fmt.Errorf("dialect/sql: query: %w", errors.New("no such table: foo")), true},
		{"other", errors.New("no such column: x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTableNotFoundError(tt.err))
		})
	}
}
