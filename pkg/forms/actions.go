package forms

import "net/http"

// ActionFunc handles a dispatched form action. data holds the effective
// submission vars. Returning a *validate.Error routes through the
// validation-error response; any other error is a server failure.
type ActionFunc func(w http.ResponseWriter, r *http.Request, data map[string]any, form *Form) error

// ActionPrefix is the submitted-name prefix identifying the clicked button.
const ActionPrefix = "action_"

// FormAction is a submit button. Its submitted name is the action name
// under the "action_" prefix; image-button submissions append "_x"/"_y"
// coordinate suffixes, which the request handler strips.
type FormAction struct {
	FieldBase
	actionName       string
	callback         ActionFunc
	validationExempt bool
}

// NewFormAction creates a submit button dispatching to actionName.
func NewFormAction(actionName, title string) *FormAction {
	a := &FormAction{actionName: actionName}
	a.FieldBase = NewBase(a, ActionPrefix+actionName, title, SchemaTypeStructural)
	a.schemaComponent = "FormAction"
	return a
}

// ActionName returns the unprefixed action name.
func (a *FormAction) ActionName() string { return a.actionName }

// HasData is false: buttons never bind data.
func (a *FormAction) HasData() bool { return false }

// SetCallback registers the handler invoked when this button dispatches on
// the form itself (dispatch priority puts controller and request-handler
// callbacks first).
func (a *FormAction) SetCallback(fn ActionFunc) *FormAction {
	a.callback = fn
	return a
}

// Callback returns the registered handler, if any.
func (a *FormAction) Callback() (ActionFunc, bool) {
	return a.callback, a.callback != nil
}

// SetValidationExempt opts this action out of form validation.
func (a *FormAction) SetValidationExempt(exempt bool) *FormAction {
	a.validationExempt = exempt
	return a
}

// ValidationExempt reports whether clicking this action skips validation.
func (a *FormAction) ValidationExempt() bool { return a.validationExempt }

// ReadonlyTransformation returns a disabled copy: a read-only form cannot
// be submitted.
func (a *FormAction) ReadonlyTransformation() Field {
	return a.DisabledTransformation()
}

// DisabledTransformation returns a disabled copy of the button.
func (a *FormAction) DisabledTransformation() Field {
	clone := NewFormAction(a.actionName, a.title)
	copyPresentation(clone, a)
	clone.callback = a.callback
	clone.validationExempt = a.validationExempt
	clone.SetDisabled(true)
	return clone
}

// FieldActionProvider is implemented by fields that expose inline actions,
// dispatched when neither the controller, the request handler, nor the
// form claims the action name. The request handler searches the field tree
// recursively, nested composites included.
type FieldActionProvider interface {
	FieldAction(name string) (ActionFunc, bool)
}
