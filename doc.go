// Package relational maps rows of a SQL store to nested entities and
// back.
//
// A Mapper navigates tables through relations. Joins are not declared:
// the naming style and the columns of the tables tell which way two
// tables are related.
//
//	m, err := relational.Open("sqlite", "file:blog.db")
//	if err != nil {
//		return err
//	}
//	// Comments of post 5, each holding its post in the post_id field.
//	comments, err := m.Table("comment").Join("post").Key(5).FetchAll(ctx)
//
// For a parent table P and a child table C, the join is
//
//   - belongs-to when P has the foreign-key column of C (post.author_id):
//     the C entity replaces the value of that field;
//   - has-many when C has the foreign-key column of P (comment.post_id):
//     the C entities are collected in a []Entity field named after C;
//   - many-to-many when a junction table (post_category) holds the keys
//     of both: the junction is joined but not hydrated.
//
// Every fetched row is hydrated once per mapper. Fetching the same row
// twice returns the same entity, so changes made through one reference
// are seen through all of them.
//
// Writes are queued by Persist and Remove and run by Flush in a single
// transaction:
//
//	author := relational.NewRecord("id", nil, "name", "New")
//	post := relational.NewRecord("id", nil, "title", "hi", "author_id", author)
//	if err := m.Table("post").Join("author").Persist(ctx, post); err != nil {
//		return err
//	}
//	// Inserts the author, then the post with author_id set to the new key.
//	err = m.Flush(ctx)
package relational
