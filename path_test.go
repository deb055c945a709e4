package relational_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relational"
)

func TestPath(t *testing.T) {
	m, _ := blog(t)
	tests := []struct {
		expr string
		want string
	}{
		{expr: "comment", want: "comment"},
		{expr: "comment.post[5]", want: "comment.post[5]"},
		{expr: " comment . post [ 5 ] ", want: "comment.post[5]"},
		{expr: "comment.post(author)", want: "comment.post(author)"},
		{expr: "category(id=8).category", want: "category(id=8).category"},
		{expr: `post(title="x", author)`, want: `post(author, title="x")`},
		{expr: "post(author(name=null), comment)", want: "post(author(name=null), comment)"},
		{expr: "post(a=true, b=false, c=1.5, d=word)", want: `post(a=true, b=false, c=1.5, d="word")`},
		{expr: "post()", want: "post"},
		{expr: `post["abc"]`, want: `post["abc"]`},
		{expr: "comment.post.post_category.category[2]", want: "comment.post.post_category.category[2]"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			r, err := m.Path(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
			assert.Same(t, m, r.Mapper())
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	m, _ := blog(t)
	for _, r := range []*relational.Relation{
		m.Table("comment").Join("post", m.Table("author")).Key(5),
		m.Table("post", relational.Cond{"title": `say "hi"`}).Join("category"),
		m.Table("category").Key(8).Join("category"),
	} {
		parsed, err := m.Path(r.String())
		require.NoError(t, err, r.String())
		assert.Equal(t, r.String(), parsed.String())
	}
}

func TestPathErrors(t *testing.T) {
	m, _ := blog(t)
	tests := []struct {
		expr string
		pos  int
		msg  string
	}{
		{expr: "", pos: 0, msg: "table name expected"},
		{expr: "comment.", pos: 8, msg: "table name expected"},
		{expr: "comment[5", pos: 9, msg: "] expected"},
		{expr: "comment)", pos: 7, msg: `unexpected ')'`},
		{expr: "post(title=)", pos: 11, msg: "value expected"},
		{expr: "post(title='x", pos: 11, msg: "unterminated string"},
		{expr: "post(title='it''s')", pos: 15, msg: ", or ) expected"},
		{expr: "post(title=1 author)", pos: 13, msg: ", or ) expected"},
		{expr: "post(=1)", pos: 5, msg: "column or table name expected"},
		{expr: "post.9", pos: 5, msg: "table name expected"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			r, err := m.Path(tt.expr)
			require.Error(t, err)
			assert.Nil(t, r)
			var perr *relational.PathError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.expr, perr.Expr)
			assert.Equal(t, tt.pos, perr.Pos)
			assert.Equal(t, tt.msg, perr.Msg)
			assert.ErrorIs(t, err, relational.ErrInvalidArgument)
		})
	}
}

func TestPathFetch(t *testing.T) {
	ctx := context.Background()
	m, _ := blog(t)

	r, err := m.Path("comment.post(author)[5]")
	require.NoError(t, err)
	comment, err := r.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Comment Text", get(t, comment, "text"))
	post := get(t, comment, "post_id").(relational.Entity)
	assert.Equal(t, "Post Title", get(t, post, "title"))
	author := get(t, post, "author_id").(relational.Entity)
	assert.Equal(t, "Author 1", get(t, author, "name"))

	r, err = m.Path("post.category(name='Sample Category')")
	require.NoError(t, err)
	posts, err := r.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	categories := get(t, posts[0], "category").([]relational.Entity)
	require.Len(t, categories, 1)
	assert.EqualValues(t, 2, get(t, categories[0], "id"))
}
