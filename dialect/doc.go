// Package dialect provides the connection abstraction used by the mapper.
//
// The mapper never talks to database/sql directly. Every statement goes
// through a Driver, which lets callers decorate execution (statistics,
// debug logging) or swap the store entirely in tests.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The dialect only affects statement text: identifier quoting, placeholder
// style and whether generated keys are read with RETURNING.
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Transaction Interface
//
//	type Tx interface {
//	    ExecQuerier
//	    Commit() error
//	    Rollback() error
//	}
//
// # Usage
//
//	drv, err := sql.Open(dialect.SQLite, "file:blog.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := relational.New(drv)
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver, statement builders, decorators
//   - dialect/sql/schema: column inspection for relation inference
package dialect
