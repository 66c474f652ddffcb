package forms

import (
	"fmt"
	"strings"
)

// FieldList is an ordered, name-addressable collection of fields. Data
// fields must be unique by name across the flattened tree; structural
// fields carry no data and are exempt.
//
// Derived views (DataFields, SaveableFields) are cached and the caches are
// flushed eagerly on every structural mutation. Callers holding a derived
// view across a mutation must expect it to be recomputed on next access.
type FieldList struct {
	items     []Field
	container Container
	form      *Form

	dataCache     map[string]Field
	dataOrder     []string
	saveableCache map[string]Field
	saveableOrder []string
}

// NewFieldList creates a FieldList holding the given fields.
func NewFieldList(fields ...Field) *FieldList {
	l := &FieldList{}
	for _, f := range fields {
		l.Push(f)
	}
	return l
}

// Fields returns the list's direct members in order.
func (l *FieldList) Fields() []Field {
	return append([]Field(nil), l.items...)
}

// Len returns the number of direct members.
func (l *FieldList) Len() int { return len(l.items) }

// SetContainer records the composite owning this list.
func (l *FieldList) SetContainer(c Container) { l.container = c }

// Container returns the composite owning this list, if any.
func (l *FieldList) Container() Container { return l.container }

// RootFieldList resolves the top-most list by walking container
// back-references.
func (l *FieldList) RootFieldList() *FieldList {
	if l.container != nil {
		if parent := l.container.ContainerList(); parent != nil {
			return parent.RootFieldList()
		}
	}
	return l
}

// SetForm attaches every field (recursively) to the form.
func (l *FieldList) SetForm(form *Form) {
	l.form = form
	for _, f := range l.items {
		f.SetForm(form)
	}
}

// Form returns the owning form, if attached.
func (l *FieldList) Form() *Form {
	if l.form != nil {
		return l.form
	}
	root := l.RootFieldList()
	if root != l {
		return root.Form()
	}
	return nil
}

// flushCaches invalidates the derived views on this list and every
// ancestor. Called on every mutation.
func (l *FieldList) flushCaches() {
	l.dataCache = nil
	l.dataOrder = nil
	l.saveableCache = nil
	l.saveableOrder = nil
	if l.container != nil {
		if parent := l.container.ContainerList(); parent != nil {
			parent.flushCaches()
		}
	}
}

// adopt wires the back-references for a newly inserted field and enforces
// the replace-by-name invariant: a data field whose name already exists in
// the root tree replaces the old occurrence.
func (l *FieldList) adopt(f Field) {
	if f.HasData() && f.Name() != "" {
		root := l.RootFieldList()
		root.removeByNameInternal(f.Name(), true)
	}
	f.setContainerList(l)
	if form := l.Form(); form != nil {
		f.SetForm(form)
	}
}

// Push appends a field.
func (l *FieldList) Push(f Field) *FieldList {
	l.adopt(f)
	l.items = append(l.items, f)
	l.flushCaches()
	return l
}

// Unshift prepends a field.
func (l *FieldList) Unshift(f Field) *FieldList {
	l.adopt(f)
	l.items = append([]Field{f}, l.items...)
	l.flushCaches()
	return l
}

// DataFields returns the flattened tree's data fields keyed by name.
// Two data fields sharing a name anywhere in the tree is a programming
// error and panics.
func (l *FieldList) DataFields() map[string]Field {
	l.buildCaches()
	return l.dataCache
}

// DataFieldNames returns the data-field names in tree order.
func (l *FieldList) DataFieldNames() []string {
	l.buildCaches()
	return append([]string(nil), l.dataOrder...)
}

// SaveableFields returns the flattened fields eligible for request-driven
// population: data fields that are neither readonly nor disabled.
func (l *FieldList) SaveableFields() map[string]Field {
	l.buildCaches()
	return l.saveableCache
}

// SaveableFieldNames returns the saveable-field names in tree order.
func (l *FieldList) SaveableFieldNames() []string {
	l.buildCaches()
	return append([]string(nil), l.saveableOrder...)
}

func (l *FieldList) buildCaches() {
	if l.dataCache != nil {
		return
	}
	data := make(map[string]Field)
	var dataOrder []string
	saveable := make(map[string]Field)
	var saveableOrder []string

	// Explicit worklist rather than recursion: deeply nested composites
	// must not be bounded by stack depth.
	stack := make([]Field, 0, len(l.items))
	for i := len(l.items) - 1; i >= 0; i-- {
		stack = append(stack, l.items[i])
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if c, ok := f.(Container); ok {
			children := c.Children().items
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
			continue
		}
		if !f.HasData() {
			continue
		}
		name := f.Name()
		if existing, dup := data[name]; dup {
			formName := "(unattached)"
			if form := l.Form(); form != nil {
				formName = form.Name()
			}
			panic(fmt.Sprintf(
				"forms: duplicate data field %q in form %s: %T collides with %T",
				name, formName, f, existing))
		}
		data[name] = f
		dataOrder = append(dataOrder, name)
		if f.CanSubmitValue() {
			saveable[name] = f
			saveableOrder = append(saveableOrder, name)
		}
	}

	l.dataCache = data
	l.dataOrder = dataOrder
	l.saveableCache = saveable
	l.saveableOrder = saveableOrder
}

// FieldByName resolves a field by dot-separated path: each segment except
// the last must resolve to a container. A single segment matches a direct
// or nested field by exact name.
func (l *FieldList) FieldByName(path string) Field {
	segments := strings.Split(path, ".")
	current := l
	for i, segment := range segments {
		f := current.findDirectOrNested(segment)
		if f == nil {
			return nil
		}
		if i == len(segments)-1 {
			return f
		}
		c, ok := f.(Container)
		if !ok {
			return nil
		}
		current = c.Children()
	}
	return nil
}

// findDirectOrNested searches this level first, then descends into
// composite children.
func (l *FieldList) findDirectOrNested(name string) Field {
	for _, f := range l.items {
		if f.Name() == name {
			return f
		}
	}
	for _, f := range l.items {
		if c, ok := f.(Container); ok {
			if found := c.Children().findDirectOrNested(name); found != nil {
				return found
			}
		}
	}
	return nil
}

// DataFieldByName resolves a data field by its flattened name.
func (l *FieldList) DataFieldByName(name string) Field {
	return l.DataFields()[name]
}

// InsertBefore splices a new field immediately before the named field,
// searching composite children depth-first. When the name is not found the
// field is appended if appendIfMissing is set; otherwise nothing happens
// and false is returned.
func (l *FieldList) InsertBefore(name string, f Field, appendIfMissing bool) bool {
	if l.insertAdjacent(name, f, 0) {
		return true
	}
	if appendIfMissing {
		l.Push(f)
		return true
	}
	return false
}

// InsertAfter splices a new field immediately after the named field. See
// InsertBefore for the miss behavior.
func (l *FieldList) InsertAfter(name string, f Field, appendIfMissing bool) bool {
	if l.insertAdjacent(name, f, 1) {
		return true
	}
	if appendIfMissing {
		l.Push(f)
		return true
	}
	return false
}

func (l *FieldList) insertAdjacent(name string, f Field, offset int) bool {
	for i, existing := range l.items {
		if existing.Name() == name {
			l.adopt(f)
			idx := i + offset
			l.items = append(l.items, nil)
			copy(l.items[idx+1:], l.items[idx:])
			l.items[idx] = f
			l.flushCaches()
			return true
		}
	}
	for _, existing := range l.items {
		if c, ok := existing.(Container); ok {
			if c.Children().insertAdjacent(name, f, offset) {
				return true
			}
		}
	}
	return false
}

// RemoveByName removes the first field with the given name, recursing into
// composite children. When dataFieldOnly is set, structural fields with a
// colliding name are left alone.
func (l *FieldList) RemoveByName(name string, dataFieldOnly bool) bool {
	removed := l.removeByNameInternal(name, dataFieldOnly)
	if removed {
		l.flushCaches()
	}
	return removed
}

// RemoveByNames removes several fields at once.
func (l *FieldList) RemoveByNames(names []string, dataFieldOnly bool) {
	for _, name := range names {
		l.RemoveByName(name, dataFieldOnly)
	}
}

func (l *FieldList) removeByNameInternal(name string, dataFieldOnly bool) bool {
	for i, f := range l.items {
		if f.Name() != name {
			continue
		}
		if dataFieldOnly && !f.HasData() {
			continue
		}
		f.setContainerList(nil)
		l.items = append(l.items[:i], l.items[i+1:]...)
		l.flushCaches()
		return true
	}
	for _, f := range l.items {
		if c, ok := f.(Container); ok {
			if c.Children().removeByNameInternal(name, dataFieldOnly) {
				l.flushCaches()
				return true
			}
		}
	}
	return false
}

// ReplaceField swaps the first field matching name for newField, recursing
// into composites. By default only data fields match, so a Tab cannot be
// replaced by name collision with a data field.
func (l *FieldList) ReplaceField(name string, newField Field, dataFieldOnly bool) bool {
	for i, f := range l.items {
		if f.Name() == name && (!dataFieldOnly || f.HasData()) {
			f.setContainerList(nil)
			newField.setContainerList(l)
			if form := l.Form(); form != nil {
				newField.SetForm(form)
			}
			l.items[i] = newField
			l.flushCaches()
			return true
		}
	}
	for _, f := range l.items {
		if c, ok := f.(Container); ok {
			if c.Children().ReplaceField(name, newField, dataFieldOnly) {
				l.flushCaches()
				return true
			}
		}
	}
	return false
}

// ChangeFieldOrder reorders the data fields to the given name sequence.
// Names not present are ignored; unnamed data fields keep their relative
// order after the named ones. Structural fields are dropped from the
// result; this is a documented caveat of the operation, not an accident.
func (l *FieldList) ChangeFieldOrder(names []string) {
	fields := l.DataFields()
	order := l.DataFieldNames()

	var reordered []Field
	used := make(map[string]bool)
	for _, name := range names {
		if f, ok := fields[name]; ok && !used[name] {
			reordered = append(reordered, f)
			used[name] = true
		}
	}
	for _, name := range order {
		if !used[name] {
			reordered = append(reordered, fields[name])
		}
	}

	l.items = l.items[:0]
	for _, f := range reordered {
		f.setContainerList(l)
		l.items = append(l.items, f)
	}
	l.flushCaches()
}

// Transform produces a new FieldList where every field has been run
// through fn. The receiver is not mutated.
func (l *FieldList) Transform(fn func(Field) Field) *FieldList {
	out := NewFieldList()
	for _, f := range l.items {
		out.Push(fn(f))
	}
	return out
}

// MakeReadonly returns a read-only rendition of the whole list.
func (l *FieldList) MakeReadonly() *FieldList {
	return l.Transform(func(f Field) Field { return f.ReadonlyTransformation() })
}

// MakeDisabled returns a disabled rendition of the whole list.
func (l *FieldList) MakeDisabled() *FieldList {
	return l.Transform(func(f Field) Field { return f.DisabledTransformation() })
}

// ForEachRecursive visits every field in the tree depth-first, composites
// included.
func (l *FieldList) ForEachRecursive(visit func(Field) bool) bool {
	for _, f := range l.items {
		if !visit(f) {
			return false
		}
		if c, ok := f.(Container); ok {
			if !c.Children().ForEachRecursive(visit) {
				return false
			}
		}
	}
	return true
}
