package forms

import (
	"fmt"
	"strings"

	"github.com/strata-dev/strata/pkg/record"
)

// CompositeField groups child fields. It never carries a value of its own;
// it only delegates to its children.
type CompositeField struct {
	FieldBase
	children *FieldList
	legend   string
	tag      string
}

// NewCompositeField creates an unnamed composite holding the given
// children.
func NewCompositeField(children ...Field) *CompositeField {
	c := &CompositeField{}
	c.initComposite(c, "", "", children...)
	return c
}

// NewFieldGroup creates a titled composite rendered as an inline group.
func NewFieldGroup(title string, children ...Field) *CompositeField {
	c := &CompositeField{}
	c.initComposite(c, "", title, children...)
	c.AddExtraClass("fieldgroup")
	return c
}

func (c *CompositeField) initComposite(self Field, name, title string, children ...Field) {
	c.FieldBase = NewBase(self, name, title, SchemaTypeStructural)
	c.tag = "div"
	c.schemaComponent = "CompositeField"
	c.children = NewFieldList()
	if container, ok := self.(Container); ok {
		c.children.SetContainer(container)
	}
	for _, f := range children {
		c.children.Push(f)
	}
}

// Children returns the composite's child list.
func (c *CompositeField) Children() *FieldList { return c.children }

// SetChildren replaces the child list.
func (c *CompositeField) SetChildren(children *FieldList) {
	c.children = children
	if container, ok := c.owner().(Container); ok {
		children.SetContainer(container)
	}
	if c.form != nil {
		children.SetForm(c.form)
	}
}

// Name returns the explicit name, or a name synthesized from the children:
// the concatenation of their names, with a "Group" suffix when exactly one
// child is named.
func (c *CompositeField) Name() string {
	if c.name != "" {
		return c.name
	}
	var named []string
	for _, f := range c.children.Fields() {
		if n := f.Name(); n != "" {
			named = append(named, n)
		}
	}
	if len(named) == 1 {
		return named[0] + "Group"
	}
	return strings.Join(named, "")
}

// SetName assigns an explicit name, suppressing synthesis.
func (c *CompositeField) SetName(name string) { c.FieldBase.name = name }

// HasData is always false: a composite only groups children.
func (c *CompositeField) HasData() bool { return false }

// SetForm attaches the composite and all children to the form.
func (c *CompositeField) SetForm(form *Form) {
	c.FieldBase.SetForm(form)
	c.children.SetForm(form)
}

// SetDisabled fans out to every child.
func (c *CompositeField) SetDisabled(disabled bool) {
	c.FieldBase.SetDisabled(disabled)
	for _, f := range c.children.Fields() {
		f.SetDisabled(disabled)
	}
}

// SetReadonly fans out to every child.
func (c *CompositeField) SetReadonly(readonly bool) {
	c.FieldBase.SetReadonly(readonly)
	for _, f := range c.children.Fields() {
		f.SetReadonly(readonly)
	}
}

// SaveInto is a no-op: composites carry no data.
func (c *CompositeField) SaveInto(record.Record) error { return nil }

// Validate delegates nothing: children are validated individually by the
// validator's data-field sweep.
func (c *CompositeField) Validate(v Validator) bool {
	return c.extendValidation(v, true)
}

// CollateDataFields gathers the leaf fields under this composite, keyed by
// name. Duplicate names are a programming error and panic. With
// saveableOnly set, readonly and disabled fields are excluded.
func (c *CompositeField) CollateDataFields(saveableOnly bool) map[string]Field {
	out := make(map[string]Field)
	c.children.ForEachRecursive(func(f Field) bool {
		if _, isContainer := f.(Container); isContainer {
			return true
		}
		if !f.HasData() {
			return true
		}
		if saveableOnly && !f.CanSubmitValue() {
			return true
		}
		name := f.Name()
		if existing, dup := out[name]; dup {
			panic(fmt.Sprintf(
				"forms: duplicate data field %q under composite %s: %T collides with %T",
				name, c.Name(), f, existing))
		}
		out[name] = f
		return true
	})
	return out
}

// ReadonlyTransformation returns a new composite whose children have each
// been run through their own readonly transforms. The receiver and its
// children are not mutated.
func (c *CompositeField) ReadonlyTransformation() Field {
	clone := NewCompositeField()
	c.cloneInto(clone, func(f Field) Field { return f.ReadonlyTransformation() })
	clone.FieldBase.SetReadonly(true)
	return clone
}

// DisabledTransformation returns a new composite with disabled children.
func (c *CompositeField) DisabledTransformation() Field {
	clone := NewCompositeField()
	c.cloneInto(clone, func(f Field) Field { return f.DisabledTransformation() })
	clone.FieldBase.SetDisabled(true)
	return clone
}

func (c *CompositeField) cloneInto(clone *CompositeField, transform func(Field) Field) {
	clone.FieldBase.name = c.FieldBase.name
	clone.SetTitle(c.Title())
	clone.legend = c.legend
	clone.tag = c.tag
	copyPresentation(clone, c.owner())
	for _, f := range c.children.Fields() {
		clone.children.Push(transform(f))
	}
}

// Legend returns the fieldset legend.
func (c *CompositeField) Legend() string { return c.legend }

// SetLegend assigns a fieldset legend.
func (c *CompositeField) SetLegend(legend string) { c.legend = legend }

// Tag returns the wrapper tag used when rendering.
func (c *CompositeField) Tag() string { return c.tag }

// SetTag assigns the wrapper tag.
func (c *CompositeField) SetTag(tag string) { c.tag = tag }

// SchemaData includes the composite marker so schema consumers can recurse.
func (c *CompositeField) SchemaData() map[string]any {
	data := c.FieldBase.SchemaData()
	data["name"] = c.Name()
	return data
}
