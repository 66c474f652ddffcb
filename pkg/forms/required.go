package forms

import (
	"fmt"

	"github.com/strata-dev/strata/pkg/validate"
)

// RequiredFields validates that a configured set of fields carry a
// non-empty value, after first delegating to every field's own rules.
// Field-local rules always run, whether or not the field is in the
// required set, and no check short-circuits: the user sees every problem
// in one pass.
type RequiredFields struct {
	ValidatorBase
	required []string
}

// NewRequiredFields creates a validator requiring the named fields.
func NewRequiredFields(names ...string) *RequiredFields {
	v := &RequiredFields{ValidatorBase: NewValidatorBase()}
	for _, name := range names {
		v.AddRequiredField(name)
	}
	return v
}

// AddRequiredField appends a name to the required set, ignoring
// duplicates.
func (v *RequiredFields) AddRequiredField(name string) *RequiredFields {
	for _, existing := range v.required {
		if existing == name {
			return v
		}
	}
	v.required = append(v.required, name)
	return v
}

// AppendRequiredFields merges another validator's required set.
func (v *RequiredFields) AppendRequiredFields(other *RequiredFields) *RequiredFields {
	for _, name := range other.required {
		v.AddRequiredField(name)
	}
	return v
}

// RemoveRequiredField drops a name from the required set.
func (v *RequiredFields) RemoveRequiredField(name string) *RequiredFields {
	out := v.required[:0]
	for _, existing := range v.required {
		if existing != name {
			out = append(out, existing)
		}
	}
	v.required = out
	return v
}

// Required returns the configured names in order.
func (v *RequiredFields) Required() []string {
	return append([]string(nil), v.required...)
}

// FieldIsRequired reports whether the named field is in the required set.
func (v *RequiredFields) FieldIsRequired(name string) bool {
	for _, existing := range v.required {
		if existing == name {
			return true
		}
	}
	return false
}

// Validate runs field-local rules over every data field, then the
// required-name checks. Every field and every name is evaluated; nothing
// short-circuits, so all applicable errors surface in one pass.
func (v *RequiredFields) Validate() *validate.Result {
	v.ResetResult()
	if !v.Enabled() {
		return v.Result()
	}
	form := v.Form()
	if form == nil {
		return v.Result()
	}

	fields := form.Fields().DataFields()
	for _, name := range form.Fields().DataFieldNames() {
		fields[name].Validate(v)
	}

	for _, name := range v.required {
		field, ok := fields[name]
		if !ok {
			continue
		}
		if fieldValuePresent(field) {
			continue
		}
		message := field.CustomValidationMessage()
		if message == "" {
			message = fmt.Sprintf("%q is required", field.Title())
		}
		v.ValidationError(name, message)
	}
	return v.Result()
}

// CanBeCached is true only for an empty required set: such a validator is
// a no-op and therefore side-effect-free.
func (v *RequiredFields) CanBeCached() bool {
	return len(v.required) == 0
}

// emptyValueChecker lets a field self-report emptiness for required
// checks, for value shapes the generic rules below cannot know about.
type emptyValueChecker interface {
	ValueIsEmpty() bool
}

// fieldValuePresent applies the shape-dependent presence rules:
// array-shaped values are present when non-empty and free of an error
// marker; has-one relation values treat both "" and "0" as unselected;
// everything else is present when its stringified form is non-empty.
func fieldValuePresent(field Field) bool {
	if ec, ok := field.(emptyValueChecker); ok {
		return !ec.ValueIsEmpty()
	}

	value := field.Value()
	switch v := value.(type) {
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case map[string]any:
		if errVal, ok := v["error"]; ok && truthy(errVal) {
			return false
		}
		return len(v) > 0
	}

	if rel, ok := field.(HasOneRelationField); ok && rel.HasOneRelation() {
		s := stringValue(value)
		return s != "" && s != "0"
	}
	return len(stringValue(value)) > 0
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	case int:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
