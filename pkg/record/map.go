package record

import "fmt"

// Map is the in-memory Record implementation used by tests and by callers
// that bind forms to plain data rather than ORM rows.
type Map struct {
	values    map[string]any
	relations map[string]*Map
	lists     map[string]*IDList
}

// NewMap creates a Map record seeded with the given field values.
func NewMap(values map[string]any) *Map {
	if values == nil {
		values = make(map[string]any)
	}
	return &Map{
		values:    values,
		relations: make(map[string]*Map),
		lists:     make(map[string]*IDList),
	}
}

// Get returns a field value.
func (m *Map) Get(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// SetCastedField stores a scalar field value.
func (m *Map) SetCastedField(name string, value any) error {
	m.values[name] = value
	return nil
}

// Values returns the underlying field map. For assertions and debugging.
func (m *Map) Values() map[string]any {
	return m.values
}

// SetRelation attaches a has-one relation record.
func (m *Map) SetRelation(name string, rel *Map) {
	m.relations[name] = rel
}

// Relation resolves a has-one relation.
func (m *Map) Relation(name string) (Record, bool) {
	rel, ok := m.relations[name]
	if !ok {
		return nil, false
	}
	return rel, ok
}

// SetRelationList attaches a relation list.
func (m *Map) SetRelationList(name string, list *IDList) {
	m.lists[name] = list
}

// RelationList resolves a relation list.
func (m *Map) RelationList(name string) (RelationList, bool) {
	l, ok := m.lists[name]
	if !ok {
		return nil, false
	}
	return l, ok
}

// IDList is the in-memory RelationList implementation.
type IDList struct {
	ids []int
}

// NewIDList creates an IDList with the given members.
func NewIDList(ids ...int) *IDList {
	return &IDList{ids: ids}
}

// SetByIDList replaces the list membership.
func (l *IDList) SetByIDList(ids []int) error {
	l.ids = append([]int(nil), ids...)
	return nil
}

// IDs returns the current membership.
func (l *IDList) IDs() []int {
	return append([]int(nil), l.ids...)
}

// SaverMap wraps a Map with a SaveField hook, for records that intercept
// particular field saves.
type SaverMap struct {
	*Map
	Hooks map[string]func(value any) error
}

// NewSaverMap creates a SaverMap with the given per-field hooks.
func NewSaverMap(values map[string]any, hooks map[string]func(value any) error) *SaverMap {
	return &SaverMap{Map: NewMap(values), Hooks: hooks}
}

// SaveField runs the hook for name if one is registered.
func (s *SaverMap) SaveField(name string, value any) (bool, error) {
	hook, ok := s.Hooks[name]
	if !ok {
		return false, nil
	}
	if err := hook(value); err != nil {
		return true, fmt.Errorf("record: save hook for %q: %w", name, err)
	}
	return true, nil
}
