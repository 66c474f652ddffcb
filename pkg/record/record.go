// Package record defines the narrow persistence contract the form layer
// saves into and loads from. The ORM behind it is a black box: the form
// layer only ever writes a casted scalar, writes an ID list through a
// relation, or walks a dotted relation path.
package record

import (
	"fmt"
	"strings"
)

// Record is the shape a persistable object must expose to the form layer.
type Record interface {
	// Get returns the current value of a field, and whether the field exists.
	Get(name string) (any, bool)

	// SetCastedField writes a scalar field value, casting as the record
	// sees fit.
	SetCastedField(name string, value any) error

	// Relation resolves a has-one relation to another record.
	Relation(name string) (Record, bool)

	// RelationList resolves a has-many/many-many relation.
	RelationList(name string) (RelationList, bool)
}

// RelationList is a relation-list-like object that can be rewritten from a
// set of IDs.
type RelationList interface {
	SetByIDList(ids []int) error
	IDs() []int
}

// FieldSaver is an optional Record capability: a record that wants to
// intercept the save of particular fields implements it. SaveField returns
// handled=false to fall back to the default scalar write.
type FieldSaver interface {
	SaveField(name string, value any) (handled bool, err error)
}

// ResolvePath reads a dotted path ("Relation.Field") through has-one
// relations, returning the leaf value.
func ResolvePath(rec Record, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := rec
	for i, part := range parts {
		if i == len(parts)-1 {
			return current.Get(part)
		}
		next, ok := current.Relation(part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// WritePath writes a dotted path through has-one relations, setting the leaf
// as a casted scalar.
func WritePath(rec Record, path string, value any) error {
	parts := strings.Split(path, ".")
	current := rec
	for i, part := range parts {
		if i == len(parts)-1 {
			return current.SetCastedField(part, value)
		}
		next, ok := current.Relation(part)
		if !ok {
			return fmt.Errorf("record: no relation %q on path %q", part, path)
		}
		current = next
	}
	return nil
}
