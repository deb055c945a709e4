package relational

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/relational/dialect/sql"
)

// Cond is a predicate map: every column must equal its value. A nil value
// matches NULL.
type Cond map[string]any

// Relation describes one step of a navigation from a root table. Building
// a relation never fails and never touches the store; inference and
// argument errors are reported when the relation runs.
//
// Relations are immutable. Every builder method returns a new relation,
// so a relation can be kept and reused as the base of several chains.
type Relation struct {
	m      *Mapper
	parent *Relation
	table  string
	key    any
	keyed  bool
	conds  []Cond
	grafts []*Relation
	err    error
}

// Table returns a root relation on the named table.
//
// Each argument is either a Cond, filtering the rows of the table, or a
// *Relation, joined as a child of the table.
//
//	m.Table("comment").Join("post", m.Table("author"))
func (m *Mapper) Table(name string, args ...any) *Relation {
	r := &Relation{m: m, table: name}
	r.apply("Table", args)
	return r
}

// Join returns a relation on the named table joined as a child of r. The
// join column and direction are inferred from the naming style when the
// relation runs. Arguments are the same as for Mapper.Table.
func (r *Relation) Join(table string, args ...any) *Relation {
	c := &Relation{m: r.m, parent: r, table: table}
	c.apply("Join", args)
	return c
}

func (r *Relation) apply(fn string, args []any) {
	if r.table == "" {
		r.err = NewArgumentError(fn, r.table, "empty table name")
		return
	}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Cond:
			r.conds = append(r.conds, arg)
		case map[string]any:
			r.conds = append(r.conds, Cond(arg))
		case *Relation:
			switch {
			case arg == nil:
				r.err = NewArgumentError(fn, arg, "nil relation")
			case arg.m != r.m:
				r.err = NewArgumentError(fn, arg, "relation of another mapper")
			default:
				r.grafts = append(r.grafts, arg)
			}
		default:
			r.err = NewArgumentError(fn, arg, "")
		}
		if r.err != nil {
			return
		}
	}
}

func (r *Relation) clone() *Relation {
	c := *r
	c.conds = slices.Clone(r.conds)
	c.grafts = slices.Clone(r.grafts)
	return &c
}

// Key returns a relation restricted to the row with the given primary key.
func (r *Relation) Key(key any) *Relation {
	c := r.clone()
	c.key, c.keyed = key, true
	return c
}

// Where returns a relation with an additional predicate map.
func (r *Relation) Where(cond Cond) *Relation {
	c := r.clone()
	c.conds = append(c.conds, cond)
	return c
}

// Name returns the table of the relation.
func (r *Relation) Name() string { return r.table }

// Mapper returns the mapper the relation belongs to.
func (r *Relation) Mapper() *Mapper { return r.m }

// chain returns the relations from the root to r.
func (r *Relation) chain() []*Relation {
	var chain []*Relation
	for n := r; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	slices.Reverse(chain)
	return chain
}

// Err returns the first argument error recorded while building r.
func (r *Relation) Err() error {
	for _, n := range r.chain() {
		if n.err != nil {
			return n.err
		}
		for _, g := range n.grafts {
			if err := g.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the relation as a path expression.
func (r *Relation) String() string {
	var b strings.Builder
	for i, n := range r.chain() {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(n.table)
		var args []string
		for _, g := range n.grafts {
			args = append(args, g.String())
		}
		for _, c := range n.conds {
			for _, k := range slices.Sorted(maps.Keys(c)) {
				args = append(args, k+"="+formatValue(c[k]))
			}
		}
		if len(args) > 0 {
			b.WriteString("(" + strings.Join(args, ", ") + ")")
		}
		if n.keyed {
			b.WriteString("[" + formatValue(n.key) + "]")
		}
	}
	return b.String()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case []byte:
		return strconv.Quote(string(v))
	default:
		return fmt.Sprint(v)
	}
}

// Extra is a statement fragment appended to the SELECT of a fetch. It
// does not change the joins of the relation.
type Extra interface {
	Apply(s *sql.Selector, root *sql.SelectTable)
}

// ExtraFunc adapts a function to Extra.
type ExtraFunc func(*sql.Selector)

// Apply calls f(s).
func (f ExtraFunc) Apply(s *sql.Selector, _ *sql.SelectTable) { f(s) }

type orderBy []string

// OrderBy orders the fetched rows. Terms may carry a direction suffix
// ("id DESC"); unqualified columns refer to the root table.
func OrderBy(terms ...string) Extra { return orderBy(terms) }

func (o orderBy) Apply(s *sql.Selector, root *sql.SelectTable) {
	for _, term := range o {
		col, dir, _ := strings.Cut(strings.TrimSpace(term), " ")
		if !strings.ContainsAny(col, ".()") {
			col = root.C(col)
		}
		if dir != "" {
			col += " " + dir
		}
		s.OrderBy(col)
	}
}

// Limit limits the number of fetched rows. On a relation with has-many
// joins the limit applies to joined rows, not to root entities.
func Limit(n int) Extra {
	return ExtraFunc(func(s *sql.Selector) { s.Limit(n) })
}

// Offset skips the first n fetched rows.
func Offset(n int) Extra {
	return ExtraFunc(func(s *sql.Selector) { s.Offset(n) })
}

// Fetch returns the first root entity of the relation, or nil when no row
// matches.
func (r *Relation) Fetch(ctx context.Context, extra ...Extra) (Entity, error) {
	roots, err := r.m.fetch(ctx, r, extra)
	if err != nil || len(roots) == 0 {
		return nil, err
	}
	return roots[0], nil
}

// FetchAll returns every root entity of the relation, in row order.
func (r *Relation) FetchAll(ctx context.Context, extra ...Extra) ([]Entity, error) {
	return r.m.fetch(ctx, r, extra)
}

// Persist queues e for writing to the root table of the relation, along
// with every entity nested in e along the joins of the relation.
func (r *Relation) Persist(ctx context.Context, e Entity) error {
	if e == nil {
		return NewArgumentError("Persist", e, "nil entity")
	}
	g, err := r.m.graph(ctx, r)
	if err != nil {
		return err
	}
	r.m.walk(g.root, e)
	return nil
}

// Remove queues a delete of e from the root table of the relation. An
// invalid relation queues nothing and its error is returned by the next
// Flush.
func (r *Relation) Remove(e Entity) {
	if e == nil {
		return
	}
	if err := r.Err(); err != nil {
		r.m.pending.fail(err)
		return
	}
	r.m.pending.remove(r.chain()[0].table, e)
}
