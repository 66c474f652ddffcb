package forms

import (
	"fmt"
	"strings"

	"github.com/strata-dev/strata/pkg/record"
	"github.com/strata-dev/strata/pkg/validate"
)

// Field is a single addressable form element. Concrete fields embed
// FieldBase and override the methods whose behavior differs.
type Field interface {
	// Name returns the field name. Names may contain "." for relation
	// traversal and "[...]" array notation.
	Name() string

	// Title returns the display label.
	Title() string
	SetTitle(title string)

	// Value returns the field's current internal value.
	Value() any

	// SetValue assigns the internal, database-shaped representation.
	// data is the record or submitted-data container the value came from,
	// for fields that need surrounding context. Infallible: invalid input
	// is stored as-is for validation to reject later.
	SetValue(value any, data any)

	// SetSubmittedValue is the entry point for values arriving from a form
	// POST. It exists separately from SetValue because raw user keystrokes
	// need format parsing that trusted record values do not.
	SetSubmittedValue(value any, data any)

	// DataValue returns the value in the shape suitable for persistence.
	DataValue() any

	// SaveInto writes DataValue into the record, traversing dot paths.
	SaveInto(rec record.Record) error

	// Validate reports whether the field's own rules pass, recording any
	// failures on the validator.
	Validate(v Validator) bool

	// HasData reports whether the field participates in data binding.
	// Structural fields return false.
	HasData() bool

	// CanSubmitValue reports whether request input may populate this field.
	CanSubmitValue() bool

	IsReadonly() bool
	SetReadonly(readonly bool)
	IsDisabled() bool
	SetDisabled(disabled bool)

	// ReadonlyTransformation returns a new, non-editable rendition of the
	// field. The receiver is never mutated.
	ReadonlyTransformation() Field

	// DisabledTransformation returns a new, disabled rendition of the
	// field. The receiver is never mutated.
	DisabledTransformation() Field

	// Message returns the field's current validation feedback, if any.
	Message() *validate.Message
	SetMessage(m *validate.Message)

	SetForm(form *Form)
	Form() *Form

	// ContainerList is the FieldList currently holding this field.
	ContainerList() *FieldList
	setContainerList(list *FieldList)

	// SchemaData is the structural description consumed by a front-end
	// renderer; SchemaState is the current value and message projection.
	SchemaData() map[string]any
	SchemaState() map[string]any

	// ExtraClasses returns the field's additional CSS classes.
	ExtraClasses() []string
	AddExtraClass(class string)
	RemoveExtraClass(class string)

	Description() string
	SetDescription(description string)

	CustomValidationMessage() string
	SetCustomValidationMessage(message string)
}

// Container is implemented by fields that group children.
type Container interface {
	Field
	Children() *FieldList
}

// ValidationHook can override the outcome of a field's Validate call.
type ValidationHook func(field Field, v Validator, valid bool) bool

// SchemaDataType classifies a field for the schema consumer.
type SchemaDataType string

const (
	SchemaTypeString       SchemaDataType = "String"
	SchemaTypeHidden       SchemaDataType = "Hidden"
	SchemaTypeText         SchemaDataType = "Text"
	SchemaTypeHTML         SchemaDataType = "HTML"
	SchemaTypeInteger      SchemaDataType = "Integer"
	SchemaTypeDecimal      SchemaDataType = "Decimal"
	SchemaTypeMultiSelect  SchemaDataType = "MultiSelect"
	SchemaTypeSingleSelect SchemaDataType = "SingleSelect"
	SchemaTypeDate         SchemaDataType = "Date"
	SchemaTypeDatetime     SchemaDataType = "Datetime"
	SchemaTypeTime         SchemaDataType = "Time"
	SchemaTypeBoolean      SchemaDataType = "Boolean"
	SchemaTypeCustom       SchemaDataType = "Custom"
	SchemaTypeStructural   SchemaDataType = "Structural"
)

// FieldBase carries the state and default behavior shared by every field.
type FieldBase struct {
	self Field

	name  string
	title string
	value any

	readonly  bool
	disabled  bool
	autofocus bool

	message *validate.Message

	extraClasses  []string
	description   string
	customMessage string

	schemaType      SchemaDataType
	schemaComponent string

	schemaDataOverrides  map[string]any
	schemaStateOverrides map[string]any

	validationHooks []ValidationHook

	form          *Form
	containerList *FieldList
}

// NewBase initializes a FieldBase for the concrete field self. Every field
// constructor must call it so that overridden methods dispatch correctly
// from shared code paths.
func NewBase(self Field, name, title string, schemaType SchemaDataType) FieldBase {
	if title == "" {
		title = TitleFromName(name)
	}
	return FieldBase{self: self, name: name, title: title, schemaType: schemaType}
}

// TitleFromName derives a human label from a field name: "FirstName"
// becomes "First Name", dots and brackets are trimmed to the leaf segment.
func TitleFromName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(name[i-1])
			if prev < 'A' || prev > 'Z' {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (b *FieldBase) owner() Field {
	if b.self != nil {
		return b.self
	}
	return b
}

func (b *FieldBase) Name() string { return b.name }

func (b *FieldBase) Title() string { return b.title }

func (b *FieldBase) SetTitle(title string) { b.title = title }

func (b *FieldBase) Value() any { return b.value }

func (b *FieldBase) SetValue(value any, data any) { b.value = value }

// SetSubmittedValue delegates to SetValue by default. Fields that parse
// user-entered text (NumericField and friends) override it.
func (b *FieldBase) SetSubmittedValue(value any, data any) {
	b.owner().SetValue(value, data)
}

func (b *FieldBase) DataValue() any { return b.value }

// SaveInto writes the field's data value into the record. Dotted names
// traverse has-one relations; []int values are written through a relation
// list when the record exposes one.
func (b *FieldBase) SaveInto(rec record.Record) error {
	f := b.owner()
	if !f.HasData() || b.name == "" {
		return nil
	}
	value := f.DataValue()
	if ids, ok := value.([]int); ok {
		if list, found := rec.RelationList(b.name); found {
			return list.SetByIDList(ids)
		}
	}
	if strings.Contains(b.name, ".") {
		return record.WritePath(rec, b.name, value)
	}
	return rec.SetCastedField(b.name, value)
}

// Validate passes by default. Concrete fields with format rules override it
// and must still report through extendValidation.
func (b *FieldBase) Validate(v Validator) bool {
	return b.extendValidation(v, true)
}

// extendValidation runs the registered validation hooks, letting each
// override the outcome.
func (b *FieldBase) extendValidation(v Validator, valid bool) bool {
	for _, hook := range b.validationHooks {
		valid = hook(b.owner(), v, valid)
	}
	return valid
}

// AddValidationHook registers a hook run after the field's own rules.
func (b *FieldBase) AddValidationHook(hook ValidationHook) {
	b.validationHooks = append(b.validationHooks, hook)
}

func (b *FieldBase) HasData() bool { return true }

func (b *FieldBase) CanSubmitValue() bool {
	return b.owner().HasData() && !b.readonly && !b.disabled
}

func (b *FieldBase) IsReadonly() bool { return b.readonly }

func (b *FieldBase) SetReadonly(readonly bool) { b.readonly = readonly }

func (b *FieldBase) IsDisabled() bool { return b.disabled }

func (b *FieldBase) SetDisabled(disabled bool) { b.disabled = disabled }

func (b *FieldBase) SetAutofocus(autofocus bool) { b.autofocus = autofocus }

func (b *FieldBase) Autofocus() bool { return b.autofocus }

// ReadonlyTransformation returns a generic read-only rendition carrying the
// field's value, title, description and extra classes. Fields with a richer
// read-only form override this.
func (b *FieldBase) ReadonlyTransformation() Field {
	ro := NewReadonlyField(b.name, b.title)
	copyPresentation(ro, b.owner())
	ro.SetValue(b.owner().Value(), nil)
	return ro
}

// DisabledTransformation returns a generic disabled rendition.
func (b *FieldBase) DisabledTransformation() Field {
	ro := NewReadonlyField(b.name, b.title)
	copyPresentation(ro, b.owner())
	ro.SetValue(b.owner().Value(), nil)
	ro.SetDisabled(true)
	return ro
}

// copyPresentation carries description and extra classes onto a transformed
// field.
func copyPresentation(dst Field, src Field) {
	dst.SetDescription(src.Description())
	for _, c := range src.ExtraClasses() {
		dst.AddExtraClass(c)
	}
	dst.SetCustomValidationMessage(src.CustomValidationMessage())
}

func (b *FieldBase) Message() *validate.Message { return b.message }

func (b *FieldBase) SetMessage(m *validate.Message) { b.message = m }

func (b *FieldBase) SetForm(form *Form) { b.form = form }

func (b *FieldBase) Form() *Form { return b.form }

func (b *FieldBase) ContainerList() *FieldList { return b.containerList }

func (b *FieldBase) setContainerList(list *FieldList) { b.containerList = list }

// RootFieldList resolves the top-most FieldList holding this field by
// walking container back-references.
func (b *FieldBase) RootFieldList() *FieldList {
	if b.containerList == nil {
		return nil
	}
	return b.containerList.RootFieldList()
}

func (b *FieldBase) ExtraClasses() []string {
	return append([]string(nil), b.extraClasses...)
}

func (b *FieldBase) AddExtraClass(class string) {
	for _, c := range b.extraClasses {
		if c == class {
			return
		}
	}
	b.extraClasses = append(b.extraClasses, class)
}

func (b *FieldBase) RemoveExtraClass(class string) {
	out := b.extraClasses[:0]
	for _, c := range b.extraClasses {
		if c != class {
			out = append(out, c)
		}
	}
	b.extraClasses = out
}

func (b *FieldBase) Description() string { return b.description }

func (b *FieldBase) SetDescription(description string) { b.description = description }

func (b *FieldBase) CustomValidationMessage() string { return b.customMessage }

func (b *FieldBase) SetCustomValidationMessage(message string) { b.customMessage = message }

func (b *FieldBase) SchemaDataType() SchemaDataType { return b.schemaType }

func (b *FieldBase) SchemaComponent() string { return b.schemaComponent }

func (b *FieldBase) SetSchemaComponent(component string) { b.schemaComponent = component }

// schemaDataKeys is the allow-list of caller-overridable schema data keys.
// Overrides outside this set are silently dropped.
var schemaDataKeys = []string{
	"name", "title", "type", "component", "extraClass", "description",
	"readOnly", "disabled", "autoFocus", "customValidationMessage", "data",
}

// schemaStateKeys is the allow-list for schema state overrides.
var schemaStateKeys = []string{"name", "value", "message", "data"}

// SetSchemaData merges allow-listed overrides into the schema data
// projection. Unknown keys are dropped, not stored.
func (b *FieldBase) SetSchemaData(overrides map[string]any) {
	b.schemaDataOverrides = mergeAllowed(b.schemaDataOverrides, overrides, schemaDataKeys)
}

// SetSchemaState merges allow-listed overrides into the schema state
// projection.
func (b *FieldBase) SetSchemaState(overrides map[string]any) {
	b.schemaStateOverrides = mergeAllowed(b.schemaStateOverrides, overrides, schemaStateKeys)
}

func mergeAllowed(dst, overrides map[string]any, allowed []string) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for _, key := range allowed {
		if v, ok := overrides[key]; ok {
			dst[key] = v
		}
	}
	return dst
}

// SchemaData returns the structural description of the field.
func (b *FieldBase) SchemaData() map[string]any {
	data := map[string]any{
		"name":                    b.name,
		"title":                   b.title,
		"type":                    string(b.schemaType),
		"component":               b.schemaComponent,
		"extraClass":              strings.Join(b.extraClasses, " "),
		"description":             b.description,
		"readOnly":                b.readonly,
		"disabled":                b.disabled,
		"autoFocus":               b.autofocus,
		"customValidationMessage": b.customMessage,
		"data":                    map[string]any{},
	}
	for k, v := range b.schemaDataOverrides {
		data[k] = v
	}
	return data
}

// SchemaState returns the current value and message projection.
func (b *FieldBase) SchemaState() map[string]any {
	state := map[string]any{
		"name":    b.name,
		"value":   b.owner().Value(),
		"message": nil,
		"data":    map[string]any{},
	}
	if b.message != nil {
		state["message"] = b.message
	}
	for k, v := range b.schemaStateOverrides {
		state[k] = v
	}
	return state
}

// String aids debugging; fields print as Type(Name).
func (b *FieldBase) String() string {
	return fmt.Sprintf("%T(%s)", b.owner(), b.name)
}
