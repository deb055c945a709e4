package sql

import (
	entdialect "entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/syssam/relational/dialect"
)

// Statement builders. Statements are rendered by entgo.io/ent/dialect/sql;
// Dialect translates the dialect names of this module to the ones it
// expects.
type (
	Builder        = entsql.Builder
	Querier        = entsql.Querier
	DialectBuilder = entsql.DialectBuilder
	Predicate      = entsql.Predicate
	SelectTable    = entsql.SelectTable
	Selector       = entsql.Selector
	InsertBuilder  = entsql.InsertBuilder
	UpdateBuilder  = entsql.UpdateBuilder
	DeleteBuilder  = entsql.DeleteBuilder
)

// Dialect returns a statement builder for the named dialect or
// database/sql driver.
//
//	Dialect(dialect.Postgres).
//		Select("id", "name").
//		From(Table("users"))
func Dialect(name string) *DialectBuilder {
	return entsql.Dialect(builderDialect(name))
}

// builderDialect returns the builder dialect of a dialect or driver name.
func builderDialect(name string) string {
	switch name = NormalizeDialect(name); name {
	case dialect.SQLite:
		return entdialect.SQLite
	default:
		return name
	}
}

// Builders without a dialect. Statements created by Dialect should be
// preferred; these quote identifiers MySQL style.
var (
	Table  = entsql.Table
	Select = entsql.Select
	Insert = entsql.Insert
	Update = entsql.Update
	Delete = entsql.Delete
)

// Predicates.
var (
	P         = entsql.P
	EQ        = entsql.EQ
	NEQ       = entsql.NEQ
	GT        = entsql.GT
	GTE       = entsql.GTE
	LT        = entsql.LT
	LTE       = entsql.LTE
	In        = entsql.In
	NotIn     = entsql.NotIn
	IsNull    = entsql.IsNull
	NotNull   = entsql.NotNull
	Contains  = entsql.Contains
	HasPrefix = entsql.HasPrefix
	HasSuffix = entsql.HasSuffix
	ColumnsEQ = entsql.ColumnsEQ
	ExprP     = entsql.ExprP
	And       = entsql.And
	Or        = entsql.Or
	Not       = entsql.Not
)

// Order terms.
var (
	Asc  = entsql.Asc
	Desc = entsql.Desc
)
