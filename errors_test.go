package relational_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relational"
)

func TestArgumentError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := relational.NewArgumentError("New", nil, "a non-nil dialect.Driver is required")
		assert.Equal(t, "relational: New: a non-nil dialect.Driver is required", err.Error())

		err = relational.NewArgumentError("Join", 42, "")
		assert.Equal(t, "relational: Join: unexpected argument of type int", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := relational.NewArgumentError("Table", "x", "")
		assert.True(t, errors.Is(err, relational.ErrInvalidArgument))
	})

	t.Run("IsArgumentError", func(t *testing.T) {
		err := relational.NewArgumentError("Table", "x", "")
		assert.True(t, relational.IsArgumentError(err))
		assert.True(t, relational.IsArgumentError(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, relational.IsArgumentError(errors.New("other error")))
		assert.False(t, relational.IsArgumentError(nil))
	})
}

func TestRelationInferenceError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &relational.RelationInferenceError{Parent: "post", Child: "tag"}
		assert.Equal(t, `relational: no relation between "post" and "tag"`, err.Error())

		cause := errors.New("connection refused")
		err = &relational.RelationInferenceError{Parent: "post", Child: "tag", Err: cause}
		assert.Equal(t, "relational: infer relation post -> tag: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Is", func(t *testing.T) {
		err := &relational.RelationInferenceError{Parent: "post", Child: "tag"}
		assert.True(t, errors.Is(err, relational.ErrNoRelation))
		assert.True(t, relational.IsRelationInferenceError(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, relational.IsRelationInferenceError(nil))
	})
}

func TestQueryError(t *testing.T) {
	cause := errors.New("no such column: x")
	err := &relational.QueryError{Table: "comment", Query: "SELECT x FROM comment", Err: cause}
	assert.Equal(t, "relational: querying comment: no such column: x", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, relational.IsQueryError(err))
	assert.False(t, relational.IsQueryError(cause))
}

func TestMutationError(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: post.id")
	err := &relational.MutationError{Table: "post", Op: "insert", Err: cause}
	assert.Equal(t, "relational: insert post: UNIQUE constraint failed: post.id", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, relational.IsMutationError(fmt.Errorf("wrapper: %w", err)))

	err = &relational.MutationError{Op: "commit", Err: cause}
	assert.Equal(t, "relational: commit: UNIQUE constraint failed: post.id", err.Error())
}

func TestRollbackError(t *testing.T) {
	cause := errors.New("tx closed")
	err := &relational.RollbackError{Err: cause}
	assert.Equal(t, "relational: rollback failed: tx closed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestPathError(t *testing.T) {
	err := &relational.PathError{Expr: "comment.", Pos: 8, Msg: "table name expected"}
	assert.Equal(t, `relational: path "comment." at offset 8: table name expected`, err.Error())
	assert.ErrorIs(t, err, relational.ErrInvalidArgument)
}
