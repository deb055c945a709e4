package schema

import (
	"context"
	stdsql "database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/relational/dialect"
	"github.com/syssam/relational/dialect/sql"
)

func openSQLite(t *testing.T) *stdsql.DB {
	t.Helper()
	db, err := stdsql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	for _, stmt := range []string{
		"CREATE TABLE post (id INTEGER PRIMARY KEY, title TEXT, text TEXT, author_id INTEGER)",
		"CREATE TABLE author (id INTEGER PRIMARY KEY, name TEXT)",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestSelect_SQLite(t *testing.T) {
	db := openSQLite(t)
	p := NewSelect(sql.OpenDB(dialect.SQLite, db))

	columns, err := p.Columns(context.Background(), "post")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title", "text", "author_id"}, columns)

	_, err = p.Columns(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotExist(err))
	var nerr *NotExistError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "missing", nerr.Table)
}

func TestSelect_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM "author" LIMIT 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`SELECT \* FROM "gone" LIMIT 0`).
		WillReturnError(errors.New(`pq: relation "gone" does not exist`))
	mock.ExpectQuery(`SELECT \* FROM "broken" LIMIT 0`).
		WillReturnError(errors.New("connection reset"))

	p := NewSelect(sql.OpenDB(dialect.Postgres, db))
	columns, err := p.Columns(context.Background(), "author")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, columns)

	_, err = p.Columns(context.Background(), "gone")
	assert.True(t, IsNotExist(err))

	_, err = p.Columns(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, IsNotExist(err))
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatic(t *testing.T) {
	s := Static{"post": {"id", "title"}}
	columns, err := s.Columns(context.Background(), "post")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title"}, columns)
	_, err = s.Columns(context.Background(), "author")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCache(t *testing.T) {
	var calls int
	tables := Static{"post": {"id"}}
	c := NewCache(InspectorFunc(func(ctx context.Context, table string) ([]string, error) {
		calls++
		return tables.Columns(ctx, table)
	}))
	ctx := context.Background()

	for range 3 {
		columns, err := c.Columns(ctx, "post")
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, columns)
	}
	assert.Equal(t, 1, calls)

	_, err := c.Columns(ctx, "author")
	require.Error(t, err)
	tables["author"] = []string{"id", "name"}
	columns, err := c.Columns(ctx, "author")
	require.NoError(t, err, "failed lookups are not cached")
	assert.Equal(t, []string{"id", "name"}, columns)
	assert.Equal(t, 3, calls)

	tables["post"] = []string{"id", "title"}
	c.Forget("post")
	columns, err = c.Columns(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title"}, columns)

	c.Forget()
	_, err = c.Columns(ctx, "author")
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
}

func TestAtlas_SQLite(t *testing.T) {
	db := openSQLite(t)
	a := NewAtlas(dialect.SQLite, db)

	columns, err := a.Columns(context.Background(), "author")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, columns)

	_, err = a.Columns(context.Background(), "missing")
	assert.True(t, IsNotExist(err))
}

func TestAtlas_UnsupportedDialect(t *testing.T) {
	a := NewAtlas("oracle", nil)
	_, err := a.Columns(context.Background(), "post")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dialect")
}
