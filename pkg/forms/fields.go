package forms

import (
	"fmt"
	"strconv"
	"strings"
)

// HasOneRelationField marks fields whose value is a has-one relation ID.
// For such fields both "" and "0" mean "no relation selected", so a
// required check treats the stringified value "0" as empty — unlike an
// ordinary numeric field, where 0 is a legitimate value.
type HasOneRelationField interface {
	HasOneRelation() bool
}

// TextField is a single-line text input.
type TextField struct {
	FieldBase
	maxLength int
}

// NewTextField creates a text field.
func NewTextField(name, title string) *TextField {
	f := &TextField{}
	f.FieldBase = NewBase(f, name, title, SchemaTypeText)
	f.schemaComponent = "TextField"
	return f
}

// SetMaxLength bounds the accepted character count. Zero means unbounded.
func (f *TextField) SetMaxLength(n int) *TextField {
	f.maxLength = n
	return f
}

// MaxLength returns the configured bound.
func (f *TextField) MaxLength() int { return f.maxLength }

// Validate enforces the max-length bound.
func (f *TextField) Validate(v Validator) bool {
	valid := true
	if f.maxLength > 0 {
		if s, ok := f.value.(string); ok && len([]rune(s)) > f.maxLength {
			v.ValidationError(f.name, fmt.Sprintf(
				"%s must be at most %d characters", f.title, f.maxLength))
			valid = false
		}
	}
	return f.extendValidation(v, valid)
}

// TextareaField is a multi-line text input.
type TextareaField struct {
	FieldBase
	rows int
	cols int
}

// NewTextareaField creates a textarea field.
func NewTextareaField(name, title string) *TextareaField {
	f := &TextareaField{rows: 5, cols: 20}
	f.FieldBase = NewBase(f, name, title, SchemaTypeText)
	f.schemaComponent = "TextareaField"
	return f
}

// SetRows sets the visible row count.
func (f *TextareaField) SetRows(rows int) *TextareaField {
	f.rows = rows
	return f
}

// SetCols sets the visible column count.
func (f *TextareaField) SetCols(cols int) *TextareaField {
	f.cols = cols
	return f
}

// HiddenField carries a value without rendering a visible control.
type HiddenField struct {
	FieldBase
}

// NewHiddenField creates a hidden field.
func NewHiddenField(name string) *HiddenField {
	f := &HiddenField{}
	f.FieldBase = NewBase(f, name, "", SchemaTypeHidden)
	f.schemaComponent = "HiddenField"
	return f
}

// ReadonlyTransformation returns a copy: hidden fields are already
// non-interactive.
func (f *HiddenField) ReadonlyTransformation() Field {
	clone := NewHiddenField(f.name)
	copyPresentation(clone, f)
	clone.SetValue(f.value, nil)
	clone.SetReadonly(true)
	return clone
}

// NumericField accepts a number. Submitted strings are parsed; a value
// loaded from a record is trusted as already canonical. An unparseable
// submission is kept raw so validation can reject it with the original
// input in the message.
type NumericField struct {
	FieldBase
	raw        string
	parseError bool
	hasMin     bool
	min        float64
	hasMax     bool
	max        float64
}

// NewNumericField creates a numeric field.
func NewNumericField(name, title string) *NumericField {
	f := &NumericField{}
	f.FieldBase = NewBase(f, name, title, SchemaTypeDecimal)
	f.schemaComponent = "NumericField"
	return f
}

// SetMin sets the inclusive lower bound.
func (f *NumericField) SetMin(min float64) *NumericField {
	f.hasMin = true
	f.min = min
	return f
}

// SetMax sets the inclusive upper bound.
func (f *NumericField) SetMax(max float64) *NumericField {
	f.hasMax = true
	f.max = max
	return f
}

// SetValue accepts a canonical numeric value from a trusted source.
func (f *NumericField) SetValue(value any, data any) {
	f.parseError = false
	f.raw = ""
	f.value = value
}

// SetSubmittedValue parses raw user input. Unparseable input is stored
// as-is for Validate to reject.
func (f *NumericField) SetSubmittedValue(value any, data any) {
	f.parseError = false
	f.raw = ""
	switch v := value.(type) {
	case nil:
		f.value = nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			f.value = nil
			return
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			f.raw = v
			f.parseError = true
			f.value = v
			return
		}
		f.value = n
	default:
		f.value = value
	}
}

// Validate rejects unparseable input and enforces the configured bounds.
func (f *NumericField) Validate(v Validator) bool {
	valid := true
	if f.parseError {
		v.ValidationError(f.name, fmt.Sprintf("'%s' is not a number", f.raw))
		valid = false
	} else if n, ok := toFloat(f.value); ok {
		if f.hasMin && n < f.min {
			v.ValidationError(f.name, fmt.Sprintf("%s must be at least %v", f.title, f.min))
			valid = false
		}
		if f.hasMax && n > f.max {
			v.ValidationError(f.name, fmt.Sprintf("%s must be at most %v", f.title, f.max))
			valid = false
		}
	}
	return f.extendValidation(v, valid)
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// CheckboxField is a boolean input.
type CheckboxField struct {
	FieldBase
}

// NewCheckboxField creates a checkbox field.
func NewCheckboxField(name, title string) *CheckboxField {
	f := &CheckboxField{}
	f.FieldBase = NewBase(f, name, title, SchemaTypeBoolean)
	f.schemaComponent = "CheckboxField"
	return f
}

// SetSubmittedValue maps the browser's checkbox conventions onto a bool.
func (f *CheckboxField) SetSubmittedValue(value any, data any) {
	switch v := value.(type) {
	case nil:
		f.value = false
	case bool:
		f.value = v
	case string:
		f.value = v == "1" || v == "on" || v == "true"
	default:
		f.value = false
	}
}

// DataValue always yields a bool.
func (f *CheckboxField) DataValue() any {
	if b, ok := f.value.(bool); ok {
		return b
	}
	return f.value != nil && f.value != "" && f.value != "0"
}

// SelectOption is one entry of a select field's source.
type SelectOption struct {
	Value string
	Title string
}

// DropdownField is a single-select input over a fixed option source.
type DropdownField struct {
	FieldBase
	options     []SelectOption
	emptyString string
	hasEmpty    bool
	relation    bool
}

// NewDropdownField creates a dropdown over the given options.
func NewDropdownField(name, title string, options []SelectOption) *DropdownField {
	f := &DropdownField{options: options}
	f.FieldBase = NewBase(f, name, title, SchemaTypeSingleSelect)
	f.schemaComponent = "DropdownField"
	return f
}

// Options returns the option source.
func (f *DropdownField) Options() []SelectOption {
	return append([]SelectOption(nil), f.options...)
}

// SetEmptyString adds a leading "nothing selected" option.
func (f *DropdownField) SetEmptyString(title string) *DropdownField {
	f.hasEmpty = true
	f.emptyString = title
	return f
}

// MarkHasOneRelation flags the field as selecting a has-one relation ID,
// changing how required checks treat the value "0".
func (f *DropdownField) MarkHasOneRelation() *DropdownField {
	f.relation = true
	return f
}

// HasOneRelation implements HasOneRelationField.
func (f *DropdownField) HasOneRelation() bool { return f.relation }

// Validate rejects values outside the option source.
func (f *DropdownField) Validate(v Validator) bool {
	valid := true
	s := stringValue(f.value)
	if s != "" && !(f.relation && s == "0") {
		found := false
		for _, opt := range f.options {
			if opt.Value == s {
				found = true
				break
			}
		}
		if !found {
			v.ValidationError(f.name, fmt.Sprintf(
				"Please select a value within the list provided. %s is not a valid option", s))
			valid = false
		}
	}
	return f.extendValidation(v, valid)
}

// SchemaData exposes the option source for the schema consumer.
func (f *DropdownField) SchemaData() map[string]any {
	data := f.FieldBase.SchemaData()
	source := make([]map[string]any, 0, len(f.options)+1)
	if f.hasEmpty {
		source = append(source, map[string]any{"value": "", "title": f.emptyString})
	}
	for _, opt := range f.options {
		source = append(source, map[string]any{"value": opt.Value, "title": opt.Title})
	}
	inner, _ := data["data"].(map[string]any)
	if inner == nil {
		inner = map[string]any{}
	}
	inner["source"] = source
	data["data"] = inner
	return data
}

// ReadonlyField renders a value without any editable control.
type ReadonlyField struct {
	FieldBase
}

// NewReadonlyField creates a read-only field.
func NewReadonlyField(name, title string) *ReadonlyField {
	f := &ReadonlyField{}
	f.FieldBase = NewBase(f, name, title, SchemaTypeString)
	f.schemaComponent = "ReadonlyField"
	f.readonly = true
	return f
}

// ReadonlyTransformation returns a copy; the field is already read-only.
func (f *ReadonlyField) ReadonlyTransformation() Field {
	clone := NewReadonlyField(f.name, f.title)
	copyPresentation(clone, f)
	clone.SetValue(f.value, nil)
	return clone
}

// LiteralField injects raw markup into the field tree. Structural: it
// carries no data.
type LiteralField struct {
	FieldBase
	content string
}

// NewLiteralField creates a literal markup field.
func NewLiteralField(name, content string) *LiteralField {
	f := &LiteralField{content: content}
	f.FieldBase = NewBase(f, name, "", SchemaTypeStructural)
	f.schemaComponent = "LiteralField"
	return f
}

// HasData is false: literal fields are layout only.
func (f *LiteralField) HasData() bool { return false }

// Content returns the raw markup.
func (f *LiteralField) Content() string { return f.content }

// ReadonlyTransformation returns a content-preserving copy.
func (f *LiteralField) ReadonlyTransformation() Field {
	clone := NewLiteralField(f.name, f.content)
	copyPresentation(clone, f)
	clone.SetReadonly(true)
	return clone
}

// DisabledTransformation returns a content-preserving copy.
func (f *LiteralField) DisabledTransformation() Field {
	clone := NewLiteralField(f.name, f.content)
	copyPresentation(clone, f)
	clone.SetDisabled(true)
	return clone
}

// stringValue renders a field value the way required checks compare it.
func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
