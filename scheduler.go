package relational

import (
	"context"
	"errors"
	"maps"
	"slices"

	"golang.org/x/text/cases"

	"github.com/syssam/relational/dialect"
	"github.com/syssam/relational/dialect/sql"
)

// opKind is the kind of a pending write.
type opKind uint8

const (
	opSave   opKind = iota // insert or update, decided at flush
	opDelete               // delete by primary key
)

func (k opKind) String() string {
	if k == opDelete {
		return "delete"
	}
	return "save"
}

// write is a pending write of one entity.
type write struct {
	op     opKind
	table  string
	entity Entity
	// links holds the foreign-key fields of a has-many child, set from the
	// key of the parent once the parent is written.
	links map[string]Entity
}

// queue accumulates pending writes until flush. An entity is queued for
// saving at most once.
type queue struct {
	writes []*write
	saves  map[Entity]*write
	errs   []error // reported by the next flush
}

func (q *queue) save(table string, e Entity) *write {
	if w, ok := q.saves[e]; ok {
		return w
	}
	if q.saves == nil {
		q.saves = make(map[Entity]*write)
	}
	w := &write{op: opSave, table: table, entity: e}
	q.saves[e] = w
	q.writes = append(q.writes, w)
	return w
}

func (q *queue) remove(table string, e Entity) {
	q.writes = append(q.writes, &write{op: opDelete, table: table, entity: e})
}

func (q *queue) fail(err error) {
	q.errs = append(q.errs, err)
}

// detach empties the queue and returns its writes, or the errors recorded
// while queueing.
func (q *queue) detach() ([]*write, error) {
	writes, err := q.writes, errors.Join(q.errs...)
	q.writes, q.saves, q.errs = nil, nil, nil
	return writes, err
}

func (q *queue) len() int { return len(q.writes) }

// walk queues e on the table of n, then every entity nested in e along
// the edges below n.
func (m *Mapper) walk(n *node, e Entity) {
	m.pending.save(n.table, e)
	for _, c := range n.children {
		switch {
		case c.hidden:
			for _, t := range c.children {
				for _, target := range collection(e, t.field(m)) {
					m.walk(t, target)
				}
			}
		case c.kind == edgeBelongsTo:
			v, _ := e.Get(c.field(m))
			if ref, ok := v.(Entity); ok && ref != nil {
				m.walk(c, ref)
			}
		case c.kind == edgeHasMany:
			for _, child := range collection(e, c.field(m)) {
				m.walk(c, child)
				w := m.pending.saves[child]
				if w.links == nil {
					w.links = make(map[string]Entity)
				}
				w.links[m.style.ColumnToProperty(c.fk)] = e
			}
		}
	}
}

// Flush executes every pending write in a single transaction. Writes run
// in dependency order: an entity referenced by a field of another entity
// is written first, and its key is used as the value of that field.
//
// The queue is emptied whatever the outcome. A write queued through an
// invalid relation fails the flush before any statement runs. On failure
// the transaction is rolled back and a *MutationError is returned.
func (m *Mapper) Flush(ctx context.Context) error {
	writes, err := m.pending.detach()
	if err != nil {
		m.log.WarnContext(ctx, "flush discarded", "writes", len(writes), "error", err)
		return err
	}
	writes = schedule(writes)
	if len(writes) == 0 {
		return nil
	}
	m.log.DebugContext(ctx, "flush", "writes", len(writes))
	tx, err := m.drv.Tx(ctx)
	if err != nil {
		return &MutationError{Op: "begin", Err: err}
	}
	f := &flusher{m: m, tx: tx, tables: make(map[Entity]string), fold: cases.Fold()}
	for _, w := range writes {
		if w.op == opSave {
			f.tables[w.entity] = w.table
		}
	}
	for _, w := range writes {
		if err := f.exec(ctx, w); err != nil {
			f.undo()
			m.log.WarnContext(ctx, "flush rolled back", "table", w.table, "op", w.op, "error", err)
			return rollback(tx, err)
		}
	}
	if err := tx.Commit(); err != nil {
		f.undo()
		return &MutationError{Op: "commit", Err: err}
	}
	for _, fn := range f.commit {
		fn()
	}
	m.log.DebugContext(ctx, "flush committed", "writes", len(writes))
	return nil
}

// schedule orders writes so that every save runs after the saves it
// depends on. Ties keep queue order; a cycle is cut at the edge that
// closes it.
func schedule(writes []*write) []*write {
	saves := make(map[Entity]*write)
	for _, w := range writes {
		if w.op == opSave {
			saves[w.entity] = w
		}
	}
	const (
		visiting = iota + 1
		done
	)
	state := make(map[*write]int, len(writes))
	order := make([]*write, 0, len(writes))
	var visit func(*write)
	visit = func(w *write) {
		if state[w] != 0 {
			return
		}
		state[w] = visiting
		if w.op == opSave {
			for _, dep := range dependencies(w) {
				if d, ok := saves[dep]; ok && d != w {
					visit(d)
				}
			}
		}
		state[w] = done
		order = append(order, w)
	}
	for _, w := range writes {
		visit(w)
	}
	return order
}

// dependencies returns the entities w references, in field order.
func dependencies(w *write) []Entity {
	var deps []Entity
	for _, f := range w.entity.Fields() {
		if v, _ := w.entity.Get(f); v != nil {
			if e, ok := v.(Entity); ok {
				deps = append(deps, e)
			}
		}
	}
	for _, f := range slices.Sorted(maps.Keys(w.links)) {
		deps = append(deps, w.links[f])
	}
	return deps
}

// flusher executes writes inside one transaction.
type flusher struct {
	m      *Mapper
	tx     dialect.Tx
	tables map[Entity]string // tables of the entities being saved
	fold   cases.Caser
	// commit holds identity map changes applied once the transaction
	// commits; undo restores the keys assigned during the flush.
	commit []func()
	undos  []func()
}

func (f *flusher) undo() {
	for i := len(f.undos) - 1; i >= 0; i-- {
		f.undos[i]()
	}
}

// field returns the entity field holding column, under case folding.
func (f *flusher) field(e Entity, column string) string {
	fields := e.Fields()
	if i := indexFold(f.fold, fields, column); i >= 0 {
		return fields[i]
	}
	return column
}

// keyOf returns the primary key of a referenced entity.
func (f *flusher) keyOf(e Entity, column string) any {
	table, ok := f.tables[e]
	if !ok {
		if table, ok = f.m.identity.tableOf(e); !ok {
			table = f.m.style.TableFromForeignColumn(f.m.style.PropertyToColumn(column))
		}
	}
	v, _ := e.Get(f.field(e, f.m.style.ColumnToProperty(f.m.style.PrimaryFromTable(table))))
	if v == nil {
		f.m.log.Debug("referenced entity has no key", "table", table, "field", column)
	}
	return v
}

func (f *flusher) exec(ctx context.Context, w *write) error {
	pkField := f.field(w.entity, f.m.style.ColumnToProperty(f.m.style.PrimaryFromTable(w.table)))
	pk, _ := w.entity.Get(pkField)
	if w.op == opDelete {
		return f.delete(ctx, w, pkField, pk)
	}
	for field, parent := range w.links {
		name := f.field(w.entity, field)
		if v, _ := w.entity.Get(name); v != parent {
			f.assign(w.entity, name, f.keyOf(parent, field))
		}
	}
	if pk != nil && f.m.identity.isTracked(w.entity) {
		return f.update(ctx, w, pkField, pk)
	}
	return f.insert(ctx, w, pkField, pk)
}

// values returns the columns and values written for the entity: every
// scalar field, with referenced entities replaced by their keys.
func (f *flusher) values(e Entity, skip string) ([]string, []any) {
	var (
		columns []string
		values  []any
	)
	for _, field := range e.Fields() {
		if field == skip {
			continue
		}
		v, _ := e.Get(field)
		switch v := v.(type) {
		case []Entity:
			continue
		case Entity:
			columns = append(columns, f.m.style.PropertyToColumn(field))
			values = append(values, f.keyOf(v, field))
			continue
		}
		columns = append(columns, f.m.style.PropertyToColumn(field))
		values = append(values, v)
	}
	return columns, values
}

func (f *flusher) insert(ctx context.Context, w *write, pkField string, pk any) error {
	if pk == nil && f.m.keys != nil {
		key, err := f.m.keys(w.table)
		if err != nil {
			return &MutationError{Table: w.table, Op: "insert", Err: err}
		}
		f.assign(w.entity, pkField, key)
		pk = key
	}
	skip := ""
	if pk == nil {
		skip = pkField
	}
	columns, values := f.values(w.entity, skip)
	pkColumn := f.m.style.PropertyToColumn(pkField)
	ins := sql.Dialect(f.m.drv.Dialect()).Insert(w.table)
	if len(columns) > 0 {
		ins.Columns(columns...).Values(values...)
	} else {
		ins.Default()
	}
	if pk == nil && f.m.drv.Dialect() == dialect.Postgres {
		ins.Returning(pkColumn)
		query, args := ins.Query()
		rows := &sql.Rows{}
		if err := f.tx.Query(ctx, query, args, rows); err != nil {
			return &MutationError{Table: w.table, Op: "insert", Err: err}
		}
		_, returned, err := sql.ScanValues(rows)
		if err != nil {
			return &MutationError{Table: w.table, Op: "insert", Err: err}
		}
		if len(returned) > 0 && len(returned[0]) > 0 {
			pk = returned[0][0]
			f.assign(w.entity, pkField, pk)
		}
	} else {
		query, args := ins.Query()
		var res sql.Result
		if err := f.tx.Exec(ctx, query, args, &res); err != nil {
			return &MutationError{Table: w.table, Op: "insert", Err: err}
		}
		if pk == nil {
			id, err := res.LastInsertId()
			if err != nil {
				f.m.log.DebugContext(ctx, "generated key lookup failed", "table", w.table, "error", err)
			} else {
				pk = id
				f.assign(w.entity, pkField, pk)
			}
		}
	}
	f.track(w.table, pk, w.entity)
	return nil
}

// assign sets a field whose value is computed by the flush. The previous
// value is restored if the flush fails.
func (f *flusher) assign(e Entity, field string, key any) {
	old, had := e.Get(field)
	e.Set(field, key)
	f.undos = append(f.undos, func() {
		if had {
			e.Set(field, old)
		} else if r, ok := e.(*Record); ok {
			r.Delete(field)
		} else {
			e.Set(field, nil)
		}
	})
}

func (f *flusher) track(table string, key any, e Entity) {
	if key == nil {
		return
	}
	f.commit = append(f.commit, func() { f.m.identity.track(table, key, e) })
}

func (f *flusher) update(ctx context.Context, w *write, pkField string, pk any) error {
	columns, values := f.values(w.entity, pkField)
	if len(columns) == 0 {
		return nil
	}
	upd := sql.Dialect(f.m.drv.Dialect()).Update(w.table)
	for i, c := range columns {
		upd.Set(c, values[i])
	}
	query, args := upd.Where(sql.EQ(f.m.style.PropertyToColumn(pkField), pk)).Query()
	if err := f.tx.Exec(ctx, query, args, nil); err != nil {
		return &MutationError{Table: w.table, Op: "update", Err: err}
	}
	return nil
}

func (f *flusher) delete(ctx context.Context, w *write, pkField string, pk any) error {
	query, args := sql.Dialect(f.m.drv.Dialect()).
		Delete(w.table).
		Where(keyPredicate(f.m.style.PropertyToColumn(pkField), pk)).
		Query()
	if err := f.tx.Exec(ctx, query, args, nil); err != nil {
		return &MutationError{Table: w.table, Op: "delete", Err: err}
	}
	e := w.entity
	f.commit = append(f.commit, func() { f.m.identity.untrack(e) })
	return nil
}
