package relational

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"golang.org/x/text/cases"

	"github.com/syssam/relational/dialect/sql"
	"github.com/syssam/relational/dialect/sql/schema"
)

// edgeKind labels the edge from a node to its parent.
type edgeKind uint8

const (
	edgeRoot       edgeKind = iota
	edgeBelongsTo           // parent.fk = node.pk
	edgeHasMany             // node.fk = parent.pk
	edgeManyToMany          // junction.fk = node.pk, below a hidden junction node
)

func (k edgeKind) String() string {
	switch k {
	case edgeBelongsTo:
		return "belongs-to"
	case edgeHasMany:
		return "has-many"
	case edgeManyToMany:
		return "many-to-many"
	default:
		return "root"
	}
}

// node is one table of a relation graph.
type node struct {
	table   string
	alias   string
	kind    edgeKind
	fk      string // join column; see edgeKind
	pk      string
	hidden  bool // junction of a many-to-many edge
	columns []string
	offset  int // position of the first column in a joined row
	index   int // position in the pre-order

	key   any
	keyed bool
	conds []Cond

	parent   *node
	children []*node
}

// field returns the parent field the entities of n are wired into.
func (n *node) field(m *Mapper) string {
	if n.kind == edgeBelongsTo {
		return m.style.ColumnToProperty(n.fk)
	}
	return m.style.ColumnToProperty(n.table)
}

// graph is the join tree of a relation. nodes holds the tree in
// pre-order, which is also the column order of joined rows.
type graph struct {
	root  *node
	nodes []*node
}

func (g *graph) joined() bool { return len(g.nodes) > 1 }

// graph builds and infers the join tree of r. A relation without joins
// needs no inspection.
func (m *Mapper) graph(ctx context.Context, r *Relation) (*graph, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	chain := r.chain()
	root := newNode(chain[0])
	extend(root, chain[0], chain[1:])
	g := &graph{root: root}
	if len(root.children) == 0 {
		root.pk = m.style.PrimaryFromTable(root.table)
		g.nodes = []*node{root}
		root.alias = root.table
		return g, nil
	}
	inf := &inferrer{m: m, ctx: ctx, columns: make(map[string][]string), fold: cases.Fold()}
	if err := inf.infer(root); err != nil {
		return nil, err
	}
	aliases := make(map[string]int)
	var walk func(*node)
	walk = func(n *node) {
		aliases[n.table]++
		n.alias = n.table
		if c := aliases[n.table]; c > 1 {
			n.alias += strconv.Itoa(c)
		}
		if len(g.nodes) > 0 {
			last := g.nodes[len(g.nodes)-1]
			n.offset = last.offset + len(last.columns)
		}
		n.index = len(g.nodes)
		g.nodes = append(g.nodes, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	return g, nil
}

func newNode(r *Relation) *node {
	return &node{table: r.table, key: r.key, keyed: r.keyed, conds: r.conds}
}

// extend attaches the grafts of r under n, then the rest of the chain.
func extend(n *node, r *Relation, rest []*Relation) {
	for _, g := range r.grafts {
		gc := g.chain()
		child := newNode(gc[0])
		n.add(child)
		extend(child, gc[0], gc[1:])
	}
	if len(rest) > 0 {
		child := newNode(rest[0])
		n.add(child)
		extend(child, rest[0], rest[1:])
	}
}

func (n *node) add(c *node) {
	c.parent = n
	n.children = append(n.children, c)
}

// inferrer resolves the edges of a graph from table columns.
type inferrer struct {
	m       *Mapper
	ctx     context.Context
	columns map[string][]string
	fold    cases.Caser
}

func (in *inferrer) inspect(table string) ([]string, error) {
	if cols, ok := in.columns[table]; ok {
		return cols, nil
	}
	cols, err := in.m.inspector.Columns(in.ctx, table)
	if err != nil {
		return nil, err
	}
	in.columns[table] = cols
	return cols, nil
}

// find returns the column of cols equal to name under case folding.
func (in *inferrer) find(cols []string, name string) (string, bool) {
	if i := indexFold(in.fold, cols, name); i >= 0 {
		return cols[i], true
	}
	return "", false
}

// indexFold returns the index of the first column equal to name under
// case folding, or -1.
func indexFold(fold cases.Caser, cols []string, name string) int {
	want := fold.String(name)
	return slices.IndexFunc(cols, func(c string) bool {
		return fold.String(c) == want
	})
}

func (in *inferrer) infer(n *node) error {
	cols, err := in.inspect(n.table)
	if err != nil {
		if n.parent != nil {
			return &RelationInferenceError{Parent: n.parent.table, Child: n.table, Err: err}
		}
		return &QueryError{Table: n.table, Err: err}
	}
	n.columns = cols
	pk := in.m.style.PrimaryFromTable(n.table)
	if c, ok := in.find(cols, pk); ok {
		pk = c
	}
	n.pk = pk
	for _, c := range slices.Clone(n.children) {
		if err := in.edge(n, c); err != nil {
			return err
		}
		if err := in.infer(c); err != nil {
			return err
		}
	}
	return nil
}

// edge infers the edge between parent p and child c: belongs-to when p
// holds a foreign key to c, has-many when c holds one to p, many-to-many
// when a junction table holds both. Two qualifying junction tables are an
// error.
func (in *inferrer) edge(p, c *node) error {
	st := in.m.style
	ccols, err := in.inspect(c.table)
	if err != nil {
		return &RelationInferenceError{Parent: p.table, Child: c.table, Err: err}
	}
	if fk, ok := in.find(p.columns, st.ForeignFromTable(c.table)); ok {
		c.kind, c.fk = edgeBelongsTo, fk
		return nil
	}
	if fk, ok := in.find(ccols, st.ForeignFromTable(p.table)); ok {
		c.kind, c.fk = edgeHasMany, fk
		return nil
	}
	junctions := []string{st.ManyFromLeftRight(p.table, c.table)}
	if j := st.ManyFromLeftRight(c.table, p.table); j != junctions[0] {
		junctions = append(junctions, j)
	}
	type junction struct {
		n   *node
		cfk string
	}
	var found []junction
	for _, table := range junctions {
		jcols, err := in.inspect(table)
		if schema.IsNotExist(err) {
			continue
		}
		if err != nil {
			return &RelationInferenceError{Parent: p.table, Child: c.table, Err: err}
		}
		pfk, ok := in.find(jcols, st.ForeignFromTable(p.table))
		if !ok {
			continue
		}
		cfk, ok := in.find(jcols, st.ForeignFromTable(c.table))
		if !ok {
			continue
		}
		j := &node{
			table:   table,
			kind:    edgeHasMany,
			fk:      pfk,
			hidden:  true,
			columns: jcols,
			parent:  p,
		}
		if jpk, ok := in.find(jcols, st.PrimaryFromTable(table)); ok {
			j.pk = jpk
		}
		found = append(found, junction{n: j, cfk: cfk})
	}
	switch len(found) {
	case 0:
		return &RelationInferenceError{Parent: p.table, Child: c.table}
	case 1:
	default:
		return &RelationInferenceError{
			Parent: p.table,
			Child:  c.table,
			Err:    fmt.Errorf("ambiguous junction tables %q and %q", found[0].n.table, found[1].n.table),
		}
	}
	j, cfk := found[0].n, found[0].cfk
	p.children[slices.Index(p.children, c)] = j
	j.children = []*node{c}
	c.parent = j
	c.kind, c.fk = edgeManyToMany, cfk
	return nil
}

// selector returns the SELECT statement of the graph and the table of
// its root node. A graph without joins selects every column of its table;
// a joined graph selects the inspected columns of every node in pre-order.
// Joined tables are always aliased.
func (g *graph) selector(dialect string) (*sql.Selector, *sql.SelectTable) {
	tables := make([]*sql.SelectTable, len(g.nodes))
	for i, n := range g.nodes {
		tables[i] = sql.Table(n.table)
		if i > 0 || n.alias != n.table {
			tables[i].As(n.alias)
		}
	}
	s := sql.Dialect(dialect).Select().From(tables[0])
	if g.joined() {
		for _, n := range g.nodes[1:] {
			p, t := tables[n.parent.index], tables[n.index]
			s.Join(t)
			if n.kind == edgeHasMany {
				s.On(t.C(n.fk), p.C(n.parent.pk))
			} else {
				s.On(p.C(n.fk), t.C(n.pk))
			}
		}
		var columns []string
		for i, n := range g.nodes {
			for _, c := range n.columns {
				columns = append(columns, tables[i].C(c))
			}
		}
		s.Select(columns...)
	}
	var preds []*sql.Predicate
	for i, n := range g.nodes {
		t := tables[i]
		if n.keyed {
			preds = append(preds, keyPredicate(t.C(n.pk), n.key))
		}
		for _, c := range n.conds {
			for _, col := range slices.Sorted(maps.Keys(c)) {
				preds = append(preds, keyPredicate(t.C(col), c[col]))
			}
		}
	}
	if len(preds) > 0 {
		s.Where(sql.And(preds...))
	}
	return s, tables[0]
}

func keyPredicate(col string, v any) *sql.Predicate {
	if v == nil {
		return sql.IsNull(col)
	}
	return sql.EQ(col, v)
}
