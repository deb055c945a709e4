// Package style holds the naming conventions the mapper uses to go from
// table names to entity type names and to infer foreign keys.
//
// A Style is pure and deterministic. Styles are swappable at runtime on a
// mapper; the concrete strategies here are selected by name.
package style

import (
	"fmt"
	"sort"
	"strings"
)

// Style maps table names to entity names, column names to property names
// and foreign-key columns to referenced tables.
type Style interface {
	// TableToEntity returns the entity type name for a table.
	TableToEntity(table string) string
	// EntityToTable is the inverse of TableToEntity.
	EntityToTable(entity string) string
	// ColumnToProperty returns the entity field name for a column.
	ColumnToProperty(column string) string
	// PropertyToColumn is the inverse of ColumnToProperty.
	PropertyToColumn(property string) string
	// PrimaryFromTable returns the primary-key column of a table.
	PrimaryFromTable(table string) string
	// IsForeignColumn reports whether the column looks like a foreign key.
	IsForeignColumn(column string) bool
	// TableFromForeignColumn returns the table a foreign-key column points
	// at, or "" when the column is not a foreign key.
	TableFromForeignColumn(column string) string
	// ForeignFromTable returns the foreign-key column referencing a table.
	ForeignFromTable(table string) string
	// ManyFromLeftRight returns the junction table joining two tables.
	ManyFromLeftRight(left, right string) string
}

// Names of the built-in styles.
const (
	NameStandard  = "standard"
	NameCakePHP   = "cakephp"
	NameNorthWind = "northwind"
	NameSakila    = "sakila"
)

var styles = map[string]func() Style{
	NameStandard:  func() Style { return Standard{} },
	NameCakePHP:   func() Style { return CakePHP{} },
	NameNorthWind: func() Style { return NorthWind{} },
	NameSakila:    func() Style { return Sakila{} },
}

// ByName returns the built-in style registered under name. The empty
// name selects the standard style.
func ByName(name string) (Style, error) {
	if name == "" {
		name = NameStandard
	}
	f, ok := styles[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("style: unknown style %q (expected one of %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// Names returns the names of the built-in styles, sorted.
func Names() []string {
	names := make([]string, 0, len(styles))
	for n := range styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
