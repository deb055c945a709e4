package style

import (
	"sort"
	"strings"

	"github.com/go-openapi/inflect"
)

// CakePHP follows the CakePHP conventions: plural snake_case tables,
// "id" primary keys, "<singular>_id" foreign keys and junction tables
// named after both plural tables in alphabetical order.
//
//	posts            <->  Post
//	author_id         ->  authors
//	posts, tags       ->  posts_tags
type CakePHP struct{}

// TableToEntity implements Style.
func (CakePHP) TableToEntity(table string) string {
	return inflect.Camelize(inflect.Singularize(table))
}

// EntityToTable implements Style.
func (CakePHP) EntityToTable(entity string) string {
	return inflect.Pluralize(inflect.Underscore(entity))
}

// ColumnToProperty implements Style.
func (CakePHP) ColumnToProperty(column string) string { return column }

// PropertyToColumn implements Style.
func (CakePHP) PropertyToColumn(property string) string { return property }

// PrimaryFromTable implements Style.
func (CakePHP) PrimaryFromTable(string) string { return "id" }

// IsForeignColumn implements Style.
func (s CakePHP) IsForeignColumn(column string) bool {
	return s.TableFromForeignColumn(column) != ""
}

// TableFromForeignColumn implements Style.
func (CakePHP) TableFromForeignColumn(column string) string {
	singular, ok := strings.CutSuffix(column, "_id")
	if !ok || singular == "" {
		return ""
	}
	return inflect.Pluralize(singular)
}

// ForeignFromTable implements Style.
func (CakePHP) ForeignFromTable(table string) string {
	return inflect.Singularize(table) + "_id"
}

// ManyFromLeftRight implements Style.
func (CakePHP) ManyFromLeftRight(left, right string) string {
	tables := []string{inflect.Pluralize(left), inflect.Pluralize(right)}
	sort.Strings(tables)
	return tables[0] + "_" + tables[1]
}
