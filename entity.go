package relational

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Entity is a row of a table as seen by the mapper: a set of named fields
// kept in insertion order. Entities are compared by identity, so
// implementations must be pointer types.
//
// Typed entities embed Record:
//
//	type Comment struct {
//		relational.Record
//	}
type Entity interface {
	// Get returns the value of a field and whether the field is set.
	Get(field string) (any, bool)
	// Set sets a field, appending it when it is new.
	Set(field string, value any)
	// Fields returns the field names in insertion order.
	Fields() []string
}

// Factory returns a new, empty entity of a registered type.
type Factory func() Entity

// Record is the untyped Entity. The zero value is an empty record ready
// to use.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns a record holding the given field/value pairs.
//
//	relational.NewRecord("id", nil, "name", "Author 1")
func NewRecord(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("relational: NewRecord called with an odd number of arguments")
	}
	r := &Record{}
	for i := 0; i < len(kv); i += 2 {
		field, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("relational: NewRecord field name of type %T", kv[i]))
		}
		r.Set(field, kv[i+1])
	}
	return r
}

// Get implements Entity.
func (r *Record) Get(field string) (any, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Set implements Entity.
func (r *Record) Set(field string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.values[field] = value
}

// Fields implements Entity.
func (r *Record) Fields() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.keys) }

// Delete removes a field.
func (r *Record) Delete(field string) {
	if _, ok := r.values[field]; !ok {
		return
	}
	delete(r.values, field)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == field })
}

// String returns the field values in insertion order.
func (r *Record) String() string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := r.values[k].(type) {
		case Entity:
			fmt.Fprintf(&b, "%s: %T", k, v)
		case []Entity:
			fmt.Fprintf(&b, "%s: [%d]", k, len(v))
		default:
			fmt.Fprintf(&b, "%s: %v", k, v)
		}
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the record as a JSON object, keeping field order.
// Cyclic graphs are not supported; use Mapper.Export for those.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		v, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("relational: marshal field %q: %w", k, err)
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// collection returns the entities held by a has-many or many-to-many field.
func collection(e Entity, field string) []Entity {
	v, _ := e.Get(field)
	children, _ := v.([]Entity)
	return children
}

// appendUnique adds child to the collection field unless it is already there.
func appendUnique(e Entity, field string, child Entity) {
	children := collection(e, field)
	if slices.Contains(children, child) {
		return
	}
	e.Set(field, append(children, child))
}

var _ Entity = (*Record)(nil)
