package schema

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"sync"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/relational/dialect"
)

// Atlas inspects tables through the Atlas inspection drivers. It reads
// the catalog instead of running statements against the tables.
type Atlas struct {
	db      *stdsql.DB
	dialect string

	once sync.Once
	drv  migrate.Driver
	err  error
}

// NewAtlas returns an Atlas inspector for the given dialect and database.
func NewAtlas(dialectName string, db *stdsql.DB) *Atlas {
	return &Atlas{db: db, dialect: dialectName}
}

func (a *Atlas) open() (migrate.Driver, error) {
	a.once.Do(func() {
		switch a.dialect {
		case dialect.SQLite:
			a.drv, a.err = sqlite.Open(a.db)
		case dialect.MySQL:
			a.drv, a.err = mysql.Open(a.db)
		case dialect.Postgres:
			a.drv, a.err = postgres.Open(a.db)
		default:
			a.err = fmt.Errorf("schema: atlas: unsupported dialect %q", a.dialect)
		}
	})
	return a.drv, a.err
}

// Columns implements Inspector.
func (a *Atlas) Columns(ctx context.Context, table string) ([]string, error) {
	drv, err := a.open()
	if err != nil {
		return nil, err
	}
	s, err := drv.InspectSchema(ctx, "", &atlas.InspectOptions{Tables: []string{table}})
	if err != nil {
		if atlas.IsNotExistError(err) {
			return nil, &NotExistError{Table: table, Err: err}
		}
		return nil, fmt.Errorf("schema: atlas: inspect %q: %w", table, err)
	}
	t, ok := s.Table(table)
	if !ok {
		return nil, &NotExistError{Table: table}
	}
	columns := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = c.Name
	}
	return columns, nil
}
