package relational

import "fmt"

// identityKey addresses one row of one table.
type identityKey struct {
	table string
	key   string
}

// identityMap holds exactly one live entity per (table, primary key).
// Entries live until the entity is removed.
type identityMap struct {
	entities map[identityKey]Entity
	keys     map[Entity]identityKey
}

func newIdentityMap() *identityMap {
	return &identityMap{
		entities: make(map[identityKey]Entity),
		keys:     make(map[Entity]identityKey),
	}
}

// normalizeKey renders a primary-key value so that the integer 5, the
// int64 5 and the bytes "5" read from a driver address the same row.
func normalizeKey(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case []byte:
		return string(v), true
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

// track registers e as the live entity for (table, key). Tracking an
// entity under a new key moves it.
func (m *identityMap) track(table string, key any, e Entity) {
	k, ok := normalizeKey(key)
	if !ok {
		return
	}
	if old, ok := m.keys[e]; ok {
		delete(m.entities, old)
	}
	id := identityKey{table: table, key: k}
	if prev, ok := m.entities[id]; ok && prev != e {
		delete(m.keys, prev)
	}
	m.entities[id] = e
	m.keys[e] = id
}

func (m *identityMap) get(table string, key any) (Entity, bool) {
	k, ok := normalizeKey(key)
	if !ok {
		return nil, false
	}
	e, ok := m.entities[identityKey{table: table, key: k}]
	return e, ok
}

func (m *identityMap) isTracked(e Entity) bool {
	_, ok := m.keys[e]
	return ok
}

// tableOf returns the table a tracked entity belongs to.
func (m *identityMap) tableOf(e Entity) (string, bool) {
	id, ok := m.keys[e]
	return id.table, ok
}

func (m *identityMap) untrack(e Entity) {
	id, ok := m.keys[e]
	if !ok {
		return
	}
	delete(m.keys, e)
	delete(m.entities, id)
}

func (m *identityMap) len() int { return len(m.entities) }
