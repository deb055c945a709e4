package relational

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"

	"github.com/syssam/relational/dialect/sql"
)

// fetch runs the SELECT of r and folds the rows into root entities.
func (m *Mapper) fetch(ctx context.Context, r *Relation, extra []Extra) ([]Entity, error) {
	g, err := m.graph(ctx, r)
	if err != nil {
		return nil, err
	}
	s, root := g.selector(m.drv.Dialect())
	for _, e := range extra {
		if e != nil {
			e.Apply(s, root)
		}
	}
	query, args := s.Query()
	rows := &sql.Rows{}
	if err := m.drv.Query(ctx, query, args, rows); err != nil {
		return nil, &QueryError{Table: g.root.table, Query: query, Err: err}
	}
	columns, values, err := sql.ScanValues(rows)
	if err != nil {
		return nil, &QueryError{Table: g.root.table, Query: query, Err: err}
	}
	h := &hydrator{m: m, g: g}
	if err := h.prepare(columns); err != nil {
		return nil, &QueryError{Table: g.root.table, Query: query, Err: err}
	}
	for _, row := range values {
		h.row(row)
	}
	return h.roots, nil
}

// hydrator folds flat rows into nested entities, reusing the live
// entities of the identity map.
type hydrator struct {
	m     *Mapper
	g     *graph
	pks   []int // per node, index of the primary key within its columns
	roots []Entity
	seen  map[Entity]struct{}
	// collection fields already emptied in this fetch, per entity
	cleared map[Entity]map[string]bool
}

func (h *hydrator) prepare(columns []string) error {
	if !h.g.joined() {
		h.g.root.columns = columns
	}
	var width int
	fold := cases.Fold()
	h.pks = make([]int, len(h.g.nodes))
	for i, n := range h.g.nodes {
		width += len(n.columns)
		h.pks[i] = indexFold(fold, n.columns, n.pk)
	}
	if width != len(columns) {
		return fmt.Errorf("relational: expected %d columns, got %d", width, len(columns))
	}
	h.seen = make(map[Entity]struct{})
	h.cleared = make(map[Entity]map[string]bool)
	return nil
}

func (h *hydrator) row(values []any) {
	root := h.node(0, values, nil)
	if root == nil {
		return
	}
	if _, ok := h.seen[root]; !ok {
		h.seen[root] = struct{}{}
		h.roots = append(h.roots, root)
	}
}

// node hydrates the node at index i of the pre-order and its subtree,
// and wires the entity into parent. A joined node whose key is NULL
// contributes nothing; a root row with a NULL key yields an untracked
// entity.
func (h *hydrator) node(i int, values []any, parent Entity) Entity {
	n := h.g.nodes[i]
	if n.hidden {
		for _, c := range n.children {
			h.node(c.index, values, parent)
		}
		return nil
	}
	vals := values[n.offset : n.offset+len(n.columns)]
	var key any
	if pk := h.pks[i]; pk >= 0 {
		if key = vals[pk]; key == nil && i > 0 {
			return nil
		}
	}
	e, ok := h.m.identity.get(n.table, key)
	if !ok {
		e = h.m.newEntity(n.table)
		for j, c := range n.columns {
			e.Set(h.m.style.ColumnToProperty(c), vals[j])
		}
		h.m.identity.track(n.table, key, e)
	}
	h.reset(n, e)
	if parent != nil {
		if n.kind == edgeBelongsTo {
			parent.Set(n.field(h.m), e)
		} else {
			appendUnique(parent, n.field(h.m), e)
		}
	}
	for _, c := range n.children {
		h.node(c.index, values, e)
	}
	return e
}

// reset empties the collections the children of n fill in e, once per
// fetch, so a reused entity holds only the children of the current rows.
func (h *hydrator) reset(n *node, e Entity) {
	fields := h.cleared[e]
	if fields == nil {
		fields = make(map[string]bool)
		h.cleared[e] = fields
	}
	for _, c := range n.children {
		if c.hidden {
			c = c.children[0]
		}
		if c.kind == edgeBelongsTo {
			continue
		}
		f := c.field(h.m)
		if fields[f] {
			continue
		}
		fields[f] = true
		if _, ok := e.Get(f); ok {
			e.Set(f, []Entity(nil))
		}
	}
}
