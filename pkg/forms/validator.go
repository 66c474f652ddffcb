package forms

import "github.com/strata-dev/strata/pkg/validate"

// Validator is a pluggable validation strategy bound to a Form.
//
// One Validate call is one submission cycle: the validator resets its
// result, runs its rules (unless disabled), and returns the accumulated
// result. Fields report their own failures through ValidationError.
type Validator interface {
	// SetForm binds the validator to the form it inspects.
	SetForm(form *Form)

	// Validate resets the result and runs the rules. A disabled validator
	// returns an empty, valid result without running anything.
	Validate() *validate.Result

	// ValidationError records a field-scoped error on the current result.
	ValidationError(fieldName, message string)

	// ValidationMessage records a field-scoped message with an explicit
	// severity and cast. Severities other than TypeError leave the
	// result valid.
	ValidationMessage(fieldName, message string, msgType validate.MessageType, cast validate.MessageCast)

	// Result returns the accumulator for the current cycle.
	Result() *validate.Result

	Enabled() bool
	SetEnabled(enabled bool)

	// CanBeCached reports whether a form using this validator may be
	// cached: true only when validation is side-effect-free and constant.
	CanBeCached() bool
}

// ValidatorBase carries the state shared by validator implementations.
type ValidatorBase struct {
	form    *Form
	result  *validate.Result
	enabled bool
}

// NewValidatorBase returns an enabled base with an empty result.
func NewValidatorBase() ValidatorBase {
	return ValidatorBase{result: validate.NewResult(), enabled: true}
}

func (b *ValidatorBase) SetForm(form *Form) { b.form = form }

// Form returns the bound form.
func (b *ValidatorBase) Form() *Form { return b.form }

func (b *ValidatorBase) ValidationError(fieldName, message string) {
	b.result.AddFieldError(fieldName, message)
}

func (b *ValidatorBase) ValidationMessage(fieldName, message string, msgType validate.MessageType, cast validate.MessageCast) {
	b.result.AddFieldMessage(fieldName, message, msgType, cast)
}

func (b *ValidatorBase) Result() *validate.Result { return b.result }

// ResetResult discards the accumulator, starting a fresh cycle.
func (b *ValidatorBase) ResetResult() {
	b.result = validate.NewResult()
}

func (b *ValidatorBase) Enabled() bool { return b.enabled }

func (b *ValidatorBase) SetEnabled(enabled bool) { b.enabled = enabled }
