package relational

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/syssam/relational/dialect"
	"github.com/syssam/relational/dialect/sql"
	"github.com/syssam/relational/dialect/sql/schema"
)

var benchColumns = schema.Static{
	"post":          {"id", "title", "author_id"},
	"author":        {"id", "name"},
	"comment":       {"id", "post_id", "text"},
	"category":      {"id", "name", "category_id"},
	"post_category": {"post_id", "category_id"},
}

// nopDriver accepts every statement. Inserts report the generated key 1.
type nopDriver struct{ name string }

func (nopDriver) Exec(_ context.Context, _ string, _, v any) error {
	if res, ok := v.(*sql.Result); ok {
		*res = nopResult{}
	}
	return nil
}

func (nopDriver) Query(context.Context, string, any, any) error { return nil }

func (d nopDriver) Tx(context.Context) (dialect.Tx, error) { return d, nil }

func (nopDriver) Commit() error   { return nil }
func (nopDriver) Rollback() error { return nil }
func (nopDriver) Close() error    { return nil }
func (d nopDriver) Dialect() string {
	return d.name
}

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 1, nil }
func (nopResult) RowsAffected() (int64, error) { return 1, nil }

func benchMapper(b *testing.B, name string) *Mapper {
	b.Helper()
	m, err := New(nopDriver{name: name},
		WithInspector(benchColumns),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		b.Fatal(err)
	}
	return m
}

func BenchmarkSelector(b *testing.B) {
	ctx := context.Background()
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		m := benchMapper(b, d)
		for name, rel := range map[string]*Relation{
			"Keyed":      m.Table("comment").Key(8),
			"BelongsTo":  m.Table("comment").Join("post", m.Table("author")).Key(5),
			"HasMany":    m.Table("post", Cond{"title": "Post Title"}).Join("comment"),
			"ManyToMany": m.Table("post").Join("category"),
		} {
			b.Run(d+"/"+name, func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					g, err := m.graph(ctx, rel)
					if err != nil {
						b.Fatal(err)
					}
					s, _ := g.selector(d)
					s.Query()
				}
			})
		}
	}
}

func BenchmarkHydrateFanOut(b *testing.B) {
	m := benchMapper(b, dialect.SQLite)
	g, err := m.graph(context.Background(), m.Table("post").Join("comment"))
	if err != nil {
		b.Fatal(err)
	}
	columns := []string{"id", "title", "author_id", "id", "post_id", "text"}
	rows := make([][]any, 100)
	for i := range rows {
		rows[i] = []any{int64(5), "Post Title", int64(1), int64(i + 1), int64(5), "Comment Text"}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.identity = newIdentityMap()
		h := &hydrator{m: m, g: g}
		if err := h.prepare(columns); err != nil {
			b.Fatal(err)
		}
		for _, row := range rows {
			h.row(row)
		}
		if len(h.roots) != 1 {
			b.Fatalf("got %d roots", len(h.roots))
		}
	}
}

func BenchmarkFlush(b *testing.B) {
	ctx := context.Background()
	for _, d := range []string{dialect.SQLite, dialect.MySQL} {
		b.Run(d+"/Insert", func(b *testing.B) {
			m := benchMapper(b, d)
			rel := m.Table("post").Join("author")
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				author := NewRecord("name", "Author 1")
				post := NewRecord("title", "Post Title", "author_id", author)
				if err := rel.Persist(ctx, post); err != nil {
					b.Fatal(err)
				}
				if err := m.Flush(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(d+"/Update", func(b *testing.B) {
			m := benchMapper(b, d)
			comment := NewRecord("id", int64(7), "post_id", int64(5), "text", "Comment Text")
			m.identity.track("comment", int64(7), comment)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				comment.Set("text", "Edited")
				if err := m.Persist(ctx, "comment", comment); err != nil {
					b.Fatal(err)
				}
				if err := m.Flush(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
