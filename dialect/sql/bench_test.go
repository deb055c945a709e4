package sql

import (
	"testing"

	"github.com/syssam/relational/dialect"
)

var dialects = []string{dialect.SQLite, dialect.MySQL, dialect.Postgres}

func BenchmarkInsertBuilder_Default(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Insert("foo").Default().Returning("id").Query()
			}
		})
	}
}

func BenchmarkInsertBuilder_Post(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Insert("post").
					Columns("title", "text", "author_id").
					Values("Post Title", "Post Text", 1).
					Returning("id").
					Query()
			}
		})
	}
}

func BenchmarkSelector_BelongsToChain(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				comment := Table("comment")
				post := Table("post").As("post")
				author := Table("author").As("author")
				s := Dialect(d).Select().From(comment)
				s.Join(post).On(comment.C("post_id"), post.C("id"))
				s.Join(author).On(post.C("author_id"), author.C("id"))
				s.Select(
					comment.C("id"), comment.C("post_id"), comment.C("text"),
					post.C("id"), post.C("title"), post.C("author_id"),
					author.C("id"), author.C("name"),
				)
				s.Where(EQ(post.C("id"), 5)).Query()
			}
		})
	}
}

func BenchmarkSelector_ManyToMany(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				post := Table("post")
				link := Table("post_category").As("post_category")
				category := Table("category").As("category")
				s := Dialect(d).Select().From(post)
				s.Join(link).On(link.C("post_id"), post.C("id"))
				s.Join(category).On(link.C("category_id"), category.C("id"))
				s.Where(And(EQ(post.C("title"), "Post Title"), IsNull(category.C("category_id")))).
					OrderBy(Desc(category.C("id"))).
					Limit(10).
					Query()
			}
		})
	}
}

func BenchmarkUpdateBuilder_Comment(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Update("comment").
					Set("post_id", 5).
					Set("text", "HeyHey").
					Where(EQ("id", 8)).
					Query()
			}
		})
	}
}

func BenchmarkDeleteBuilder_Comment(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Delete("comment").Where(EQ("id", 8)).Query()
			}
		})
	}
}
