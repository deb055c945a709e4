package relational

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/syssam/relational/dialect/sql/schema"
	"github.com/syssam/relational/style"
)

// config holds the mapper options.
type config struct {
	style     style.Style
	namespace string
	entities  map[string]Factory
	inspector schema.Inspector
	log       *slog.Logger
	keys      KeyGenerator
	debug     bool
}

// Option configures a Mapper.
type Option func(*config)

// WithStyle sets the naming style. The default is style.Standard.
func WithStyle(s style.Style) Option {
	return func(c *config) {
		c.style = s
	}
}

// WithEntityNamespace sets the prefix prepended to inferred entity type
// names when looking up registered factories.
func WithEntityNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithEntity registers a factory for the given entity type name.
//
//	relational.WithEntity("blog.Comment", func() relational.Entity { return &Comment{} })
func WithEntity(typeName string, f Factory) Option {
	return func(c *config) {
		if c.entities == nil {
			c.entities = make(map[string]Factory)
		}
		c.entities[typeName] = f
	}
}

// WithInspector sets the column inspector used to infer joins. The
// default selects from tables through the mapper driver and caches the result.
func WithInspector(in schema.Inspector) Option {
	return func(c *config) {
		c.inspector = in
	}
}

// WithLogger sets the logger. The default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithKeyGenerator sets a generator for primary keys of inserted
// entities that do not carry one.
func WithKeyGenerator(g KeyGenerator) Option {
	return func(c *config) {
		c.keys = g
	}
}

// WithDebug logs every statement at debug level.
func WithDebug() Option {
	return func(c *config) {
		c.debug = true
	}
}

// KeyGenerator returns a new primary key for a row of table.
type KeyGenerator func(table string) (any, error)

// UUIDKeys returns a KeyGenerator producing random (version 4) UUID strings.
func UUIDKeys() KeyGenerator {
	return func(table string) (any, error) {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("relational: generate key for %s: %w", table, err)
		}
		return id.String(), nil
	}
}
