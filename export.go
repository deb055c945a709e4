package relational

// Export returns a nested map view of e: entities become maps and
// collections become slices of maps. An entity met again below itself is
// rendered as its primary key, so cyclic graphs export finitely.
func (m *Mapper) Export(e Entity) map[string]any {
	if e == nil {
		return nil
	}
	return m.export(e, make(map[Entity]bool))
}

func (m *Mapper) export(e Entity, path map[Entity]bool) map[string]any {
	path[e] = true
	defer delete(path, e)
	out := make(map[string]any, len(e.Fields()))
	for _, f := range e.Fields() {
		v, _ := e.Get(f)
		switch v := v.(type) {
		case Entity:
			out[f] = m.exportRef(v, path)
		case []Entity:
			list := make([]any, len(v))
			for i, c := range v {
				list[i] = m.exportRef(c, path)
			}
			out[f] = list
		case []byte:
			out[f] = string(v)
		default:
			out[f] = v
		}
	}
	return out
}

func (m *Mapper) exportRef(e Entity, path map[Entity]bool) any {
	if !path[e] {
		return m.export(e, path)
	}
	table, ok := m.identity.tableOf(e)
	if !ok {
		return nil
	}
	v, _ := e.Get(m.style.ColumnToProperty(m.style.PrimaryFromTable(table)))
	return v
}
