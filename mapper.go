package relational

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/syssam/relational/dialect"
	"github.com/syssam/relational/dialect/sql"
	"github.com/syssam/relational/dialect/sql/schema"
	"github.com/syssam/relational/style"
)

// Mapper fetches rows of a store as nested entities and writes entity
// graphs back. It owns an identity map: every (table, primary key) pair
// maps to a single live entity for the lifetime of the mapper, so a
// mutation through one holder is visible to all.
//
// A Mapper is not safe for concurrent use.
type Mapper struct {
	drv       dialect.Driver
	style     style.Style
	namespace string
	entities  map[string]Factory
	inspector schema.Inspector
	log       *slog.Logger
	keys      KeyGenerator

	identity *identityMap
	pending  *queue
}

// New returns a mapper running its statements on drv.
func New(drv dialect.Driver, opts ...Option) (*Mapper, error) {
	if isNil(drv) {
		return nil, NewArgumentError("New", drv, "a non-nil dialect.Driver is required")
	}
	cfg := config{
		style: style.Standard{},
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.style == nil {
		return nil, NewArgumentError("New", nil, "a non-nil style is required")
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}
	if cfg.debug {
		drv = sql.NewDebugDriver(drv, cfg.log)
	}
	if cfg.inspector == nil {
		cfg.inspector = schema.NewCache(schema.NewSelect(drv))
	}
	m := &Mapper{
		drv:       drv,
		style:     cfg.style,
		namespace: cfg.namespace,
		entities:  make(map[string]Factory, len(cfg.entities)),
		inspector: cfg.inspector,
		log:       cfg.log,
		keys:      cfg.keys,
		identity:  newIdentityMap(),
		pending:   &queue{},
	}
	for name, f := range cfg.entities {
		m.entities[name] = f
	}
	return m, nil
}

// Open opens a database/sql driver and returns a mapper over it.
//
//	m, err := relational.Open("sqlite", "file:blog.db")
func Open(driverName, dsn string, opts ...Option) (*Mapper, error) {
	drv, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	m, err := New(drv, opts...)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return m, nil
}

func isNil(drv dialect.Driver) bool {
	if drv == nil {
		return true
	}
	v := reflect.ValueOf(drv)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Driver returns the driver statements run on.
func (m *Mapper) Driver() dialect.Driver { return m.drv }

// Close closes the underlying driver.
func (m *Mapper) Close() error { return m.drv.Close() }

// Style returns the naming style in use.
func (m *Mapper) Style() style.Style { return m.style }

// SetStyle replaces the naming style. Relations built before the call
// use the new style when they run.
func (m *Mapper) SetStyle(s style.Style) {
	if s != nil {
		m.style = s
	}
}

// EntityNamespace returns the prefix of entity type names.
func (m *Mapper) EntityNamespace() string { return m.namespace }

// SetEntityNamespace sets the prefix of entity type names.
func (m *Mapper) SetEntityNamespace(ns string) { m.namespace = ns }

// Register adds a factory for the given entity type name. Rows of table t
// are hydrated with the factory registered under
// EntityNamespace()+Style().TableToEntity(t), or as *Record when there is
// none.
func (m *Mapper) Register(typeName string, f Factory) {
	if f == nil {
		delete(m.entities, typeName)
		return
	}
	m.entities[typeName] = f
}

// newEntity returns an empty entity for a row of table.
func (m *Mapper) newEntity(table string) Entity {
	if f, ok := m.entities[m.namespace+m.style.TableToEntity(table)]; ok {
		if e := f(); e != nil {
			return e
		}
	}
	return &Record{}
}

// IsTracked reports whether e is the live entity of some row.
func (m *Mapper) IsTracked(e Entity) bool {
	if e == nil {
		return false
	}
	return m.identity.isTracked(e)
}

// GetTracked returns the live entity of the row of table with the given
// primary key, if it was fetched or written through this mapper.
func (m *Mapper) GetTracked(table string, key any) (Entity, bool) {
	return m.identity.get(table, key)
}

// Persist queues e, and every entity nested in it, for writing to table.
func (m *Mapper) Persist(ctx context.Context, table string, e Entity) error {
	return m.Table(table).Persist(ctx, e)
}

// Remove queues a delete of e from table.
func (m *Mapper) Remove(table string, e Entity) {
	m.Table(table).Remove(e)
}

// Pending returns the number of queued writes.
func (m *Mapper) Pending() int { return m.pending.len() }
