// Package sql provides the database/sql driver and the statement builders
// used by the mapper.
//
// # Builder Types
//
// The builders are those of entgo.io/ent/dialect/sql, re-exported here so
// the mapper and its drivers share one package:
//
//   - Selector: SELECT statement with joins, predicates and pagination
//   - InsertBuilder: INSERT statement with DEFAULT VALUES and RETURNING
//   - UpdateBuilder: UPDATE statement with SET and WHERE clauses
//   - DeleteBuilder: DELETE statement with WHERE predicates
//
// # Dialect Support
//
// Dialect accepts the dialect names of package dialect as well as
// database/sql driver names. PostgreSQL quotes identifiers with double
// quotes and numbers placeholders; MySQL and SQLite quote with backticks.
//
//	sql.Dialect(dialect.Postgres).
//	    Select().
//	    From(sql.Table("users")).
//	    Where(sql.EQ("status", "active"))
//	// SELECT * FROM "users" WHERE "status" = $1
//
// # Predicates
//
//	sql.EQ("name", "john")           // `name` = ?
//	sql.NEQ("status", "deleted")     // `status` <> ?
//	sql.IsNull("deleted_at")         // `deleted_at` IS NULL
//	sql.In("status", "a", "b")       // `status` IN (?, ?)
//	sql.And(p1, p2)                  // p1 AND p2
//
// # Joins
//
// Joined tables are always given an alias.
//
//	c, p := sql.Table("comment"), sql.Table("post").As("post")
//	s := sql.Dialect(dialect.SQLite).Select().From(c)
//	s.Join(p).On(c.C("post_id"), p.C("id"))
//	s.Select(c.C("id"), p.C("title"))
//
// # Drivers
//
// Driver adapts a *database/sql.DB to dialect.Driver. StatsDriver and
// DebugDriver decorate any dialect.Driver with statement statistics and
// debug logging.
//
//	drv, err := sql.Open("sqlite", "file:blog.db")
//	if err != nil {
//	    return err
//	}
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(nil))
//
// # Errors
//
// IsUniqueConstraintError, IsForeignKeyConstraintError and
// IsTableNotFoundError classify driver errors by SQLSTATE or error number
// when the driver reports one, and by message otherwise.
package sql
