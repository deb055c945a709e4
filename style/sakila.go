package style

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Sakila follows the MySQL Sakila sample database: singular snake_case
// tables whose primary key repeats the table name, so that primary and
// foreign key columns share the "<table>_id" name.
//
//	film_actor  <->  FilmActor
//	film         ->  film_id
type Sakila struct{}

// TableToEntity implements Style.
func (Sakila) TableToEntity(table string) string { return inflect.Camelize(table) }

// EntityToTable implements Style.
func (Sakila) EntityToTable(entity string) string { return inflect.Underscore(entity) }

// ColumnToProperty implements Style.
func (Sakila) ColumnToProperty(column string) string { return column }

// PropertyToColumn implements Style.
func (Sakila) PropertyToColumn(property string) string { return property }

// PrimaryFromTable implements Style.
func (Sakila) PrimaryFromTable(table string) string { return table + "_id" }

// IsForeignColumn implements Style.
func (s Sakila) IsForeignColumn(column string) bool {
	return s.TableFromForeignColumn(column) != ""
}

// TableFromForeignColumn implements Style.
func (Sakila) TableFromForeignColumn(column string) string {
	table, ok := strings.CutSuffix(column, "_id")
	if !ok || table == "" {
		return ""
	}
	return table
}

// ForeignFromTable implements Style.
func (Sakila) ForeignFromTable(table string) string { return table + "_id" }

// ManyFromLeftRight implements Style.
func (Sakila) ManyFromLeftRight(left, right string) string { return left + "_" + right }
