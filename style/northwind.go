package style

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// NorthWind follows the Northwind sample database: plural PascalCase
// tables, PascalCase columns and "<Singular>ID" keys, both primary and
// foreign.
//
//	Posts              <->  Post
//	Posts               ->  PostID
//	Posts, Categories   ->  PostCategories
type NorthWind struct{}

// TableToEntity implements Style.
func (NorthWind) TableToEntity(table string) string { return inflect.Singularize(table) }

// EntityToTable implements Style.
func (NorthWind) EntityToTable(entity string) string { return inflect.Pluralize(entity) }

// ColumnToProperty implements Style.
func (NorthWind) ColumnToProperty(column string) string { return column }

// PropertyToColumn implements Style.
func (NorthWind) PropertyToColumn(property string) string { return property }

// PrimaryFromTable implements Style.
func (NorthWind) PrimaryFromTable(table string) string {
	return inflect.Singularize(table) + "ID"
}

// IsForeignColumn implements Style.
func (s NorthWind) IsForeignColumn(column string) bool {
	return s.TableFromForeignColumn(column) != ""
}

// TableFromForeignColumn implements Style.
func (NorthWind) TableFromForeignColumn(column string) string {
	singular, ok := strings.CutSuffix(column, "ID")
	if !ok || singular == "" {
		return ""
	}
	return inflect.Pluralize(singular)
}

// ForeignFromTable implements Style.
func (s NorthWind) ForeignFromTable(table string) string { return s.PrimaryFromTable(table) }

// ManyFromLeftRight implements Style.
func (NorthWind) ManyFromLeftRight(left, right string) string {
	return inflect.Singularize(left) + right
}
