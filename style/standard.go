package style

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Standard is the default style: singular snake_case tables, "id"
// primary keys, "<table>_id" foreign keys and "<left>_<right>" junctions.
//
//	post_category  <->  PostCategory
//	author_id       ->  author
type Standard struct{}

// TableToEntity implements Style.
func (Standard) TableToEntity(table string) string { return inflect.Camelize(table) }

// EntityToTable implements Style.
func (Standard) EntityToTable(entity string) string { return inflect.Underscore(entity) }

// ColumnToProperty implements Style.
func (Standard) ColumnToProperty(column string) string { return column }

// PropertyToColumn implements Style.
func (Standard) PropertyToColumn(property string) string { return property }

// PrimaryFromTable implements Style.
func (Standard) PrimaryFromTable(string) string { return "id" }

// IsForeignColumn implements Style.
func (s Standard) IsForeignColumn(column string) bool {
	return s.TableFromForeignColumn(column) != ""
}

// TableFromForeignColumn implements Style.
func (Standard) TableFromForeignColumn(column string) string {
	table, ok := strings.CutSuffix(column, "_id")
	if !ok || table == "" {
		return ""
	}
	return table
}

// ForeignFromTable implements Style.
func (Standard) ForeignFromTable(table string) string { return table + "_id" }

// ManyFromLeftRight implements Style.
func (Standard) ManyFromLeftRight(left, right string) string { return left + "_" + right }
