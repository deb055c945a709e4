// Package schema reports the columns of live tables. The mapper uses it to
// infer how two tables join; it is not a migration tool.
package schema

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/syssam/relational/dialect"
	"github.com/syssam/relational/dialect/sql"
)

// ErrTableNotFound is matched by errors.Is for every NotExistError.
var ErrTableNotFound = errors.New("schema: table not found")

// NotExistError is returned by an Inspector when a table does not exist.
type NotExistError struct {
	Table string
	Err   error // Underlying driver error, if any.
}

// Error returns the error string.
func (e *NotExistError) Error() string {
	return fmt.Sprintf("schema: table %q does not exist", e.Table)
}

// Unwrap returns the underlying error.
func (e *NotExistError) Unwrap() error { return e.Err }

// Is reports whether the target error matches ErrTableNotFound.
func (e *NotExistError) Is(err error) bool { return err == ErrTableNotFound }

// IsNotExist reports whether err tells that a table does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrTableNotFound)
}

// Inspector reports the columns of a table, in table order.
type Inspector interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// InspectorFunc is an adapter to allow the use of ordinary functions as Inspector.
type InspectorFunc func(ctx context.Context, table string) ([]string, error)

// Columns calls f(ctx, table).
func (f InspectorFunc) Columns(ctx context.Context, table string) ([]string, error) {
	return f(ctx, table)
}

// Select inspects tables by running an empty SELECT against them and
// reading the result column names. It works with every dialect and
// every decorated driver.
type Select struct {
	drv dialect.Driver
}

// NewSelect returns a Select inspector running its statements on drv.
func NewSelect(drv dialect.Driver) *Select {
	return &Select{drv: drv}
}

// Columns implements Inspector.
func (s *Select) Columns(ctx context.Context, table string) ([]string, error) {
	query, args := sql.Dialect(s.drv.Dialect()).
		Select("*").
		From(sql.Table(table)).
		Limit(0).
		Query()
	rows := &sql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		if sql.IsTableNotFoundError(err) {
			return nil, &NotExistError{Table: table, Err: err}
		}
		return nil, fmt.Errorf("schema: select %q: %w", table, err)
	}
	columns, _, err := sql.ScanValues(rows)
	if err != nil {
		return nil, fmt.Errorf("schema: select %q: %w", table, err)
	}
	return columns, nil
}

// Static is an Inspector backed by a fixed table to columns mapping.
type Static map[string][]string

// Columns implements Inspector.
func (s Static) Columns(_ context.Context, table string) ([]string, error) {
	columns, ok := s[table]
	if !ok {
		return nil, &NotExistError{Table: table}
	}
	return columns, nil
}

// Cache memoizes the columns reported by an Inspector. Only successful
// lookups are kept, so a table created after a failed lookup is seen on
// the next call.
type Cache struct {
	Inspector
	mu     sync.RWMutex
	tables map[string][]string
}

// NewCache wraps the given inspector with a column cache.
func NewCache(in Inspector) *Cache {
	return &Cache{Inspector: in, tables: make(map[string][]string)}
}

// Columns implements Inspector.
func (c *Cache) Columns(ctx context.Context, table string) ([]string, error) {
	c.mu.RLock()
	columns, ok := c.tables[table]
	c.mu.RUnlock()
	if ok {
		return columns, nil
	}
	columns, err := c.Inspector.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.tables[table] = columns
	c.mu.Unlock()
	return columns, nil
}

// Forget drops the cached columns of the given tables, or of every table
// when called without arguments.
func (c *Cache) Forget(tables ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(tables) == 0 {
		clear(c.tables)
		return
	}
	for _, t := range tables {
		delete(c.tables, t)
	}
}
