package forms

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/strata-dev/strata/pkg/record"
	"github.com/strata-dev/strata/pkg/render"
	"github.com/strata-dev/strata/pkg/session"
	"github.com/strata-dev/strata/pkg/token"
	"github.com/strata-dev/strata/pkg/validate"
)

// Controller hosts a form within a larger page or handler and gets first
// refusal on action dispatch.
type Controller interface {
	// Action resolves a controller-level handler for an action name.
	Action(name string) (ActionFunc, bool)

	// CanInvoke reports whether the current request may invoke the named
	// action on this controller.
	CanInvoke(r *http.Request, name string) bool
}

// sessionStateKey prefixes every session entry a form owns.
const sessionStateKey = "FormInfo"

// Form is a named collection of fields and actions with a validator and
// the submission state machine's data-binding half. Request handling
// lives on RequestHandler; the state it drives lives here.
type Form struct {
	name    string
	fields  *FieldList
	actions *FieldList

	validator  Validator
	controller Controller
	record     record.Record

	securityToken token.Token

	message *validate.Message

	method            string
	strictMethodCheck bool
	formAction        string

	defaultActionName        string
	validationExemptActions  []string
	redirectOnValidationErr  bool
	validationErrCallback    func(w http.ResponseWriter, r *http.Request, result *validate.Result) bool
	renderer                 render.Renderer
	logger                   zerolog.Logger
	legacyAllowedActionNames []string
}

// Option configures a Form at construction time.
type Option func(*Form)

// WithValidator replaces the default empty RequiredFields validator.
func WithValidator(v Validator) Option {
	return func(f *Form) { f.validator = v }
}

// WithController attaches the hosting controller.
func WithController(c Controller) Option {
	return func(f *Form) { f.controller = c }
}

// WithMethod sets the form's logical HTTP method. Defaults to POST.
func WithMethod(method string) Option {
	return func(f *Form) { f.method = strings.ToUpper(method) }
}

// WithStrictMethodCheck makes the request handler reject submissions
// arriving over the wrong method and restrict variable extraction to the
// matching var set.
func WithStrictMethodCheck(strict bool) Option {
	return func(f *Form) { f.strictMethodCheck = strict }
}

// WithSecurityToken overrides the token chosen from the global default.
func WithSecurityToken(t token.Token) Option {
	return func(f *Form) { f.securityToken = t }
}

// WithFormAction sets the URL the rendered form submits to.
func WithFormAction(url string) Option {
	return func(f *Form) { f.formAction = url }
}

// WithDefaultAction names the action dispatched when no action_* key is
// present in the submission.
func WithDefaultAction(name string) Option {
	return func(f *Form) { f.defaultActionName = name }
}

// WithValidationExemptActions names actions that submit without running
// the validator, in addition to actions individually marked exempt.
func WithValidationExemptActions(names ...string) Option {
	return func(f *Form) { f.validationExemptActions = names }
}

// WithRedirectOnValidationError re-targets the validation-failure
// redirect at the form's own anchor instead of the plain referer.
func WithRedirectOnValidationError(redirect bool) Option {
	return func(f *Form) { f.redirectOnValidationErr = redirect }
}

// WithValidationErrorCallback registers a callback that gets first
// refusal on the validation-error response. Returning true claims the
// response entirely.
func WithValidationErrorCallback(fn func(w http.ResponseWriter, r *http.Request, result *validate.Result) bool) Option {
	return func(f *Form) { f.validationErrCallback = fn }
}

// WithRenderer sets the markup renderer used for non-JSON ajax replies.
func WithRenderer(r render.Renderer) Option {
	return func(f *Form) { f.renderer = r }
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Form) { f.logger = logger }
}

// New creates a form. The fields and actions lists are adopted: the form
// back-reference is set on every field, containers included.
func New(name string, fields, actions *FieldList, opts ...Option) *Form {
	if fields == nil {
		fields = NewFieldList()
	}
	if actions == nil {
		actions = NewFieldList()
	}
	f := &Form{
		name:      name,
		method:    http.MethodPost,
		validator: NewRequiredFields(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.securityToken == nil {
		f.securityToken = token.Default()
	}
	f.SetFields(fields)
	f.SetActions(actions)
	if f.validator != nil {
		f.validator.SetForm(f)
	}
	return f
}

// Name returns the form's identifier, used for session keys, schema
// identifiers and the rendered anchor.
func (f *Form) Name() string { return f.name }

// Fields returns the data-field tree.
func (f *Form) Fields() *FieldList { return f.fields }

// SetFields replaces the field tree and rebinds it to this form.
func (f *Form) SetFields(fields *FieldList) {
	f.fields = fields
	fields.SetForm(f)
}

// Actions returns the action list.
func (f *Form) Actions() *FieldList { return f.actions }

// SetActions replaces the action list and rebinds it to this form.
func (f *Form) SetActions(actions *FieldList) {
	f.actions = actions
	actions.SetForm(f)
}

// Validator returns the current validator, which may be nil.
func (f *Form) Validator() Validator { return f.validator }

// SetValidator replaces the validator and binds it to this form.
func (f *Form) SetValidator(v Validator) {
	f.validator = v
	if v != nil {
		v.SetForm(f)
	}
}

// Controller returns the hosting controller, if any.
func (f *Form) Controller() Controller { return f.controller }

// SetController attaches the hosting controller.
func (f *Form) SetController(c Controller) { f.controller = c }

// Record returns the object last bound via LoadDataFrom.
func (f *Form) Record() record.Record { return f.record }

// Method returns the form's logical HTTP method, uppercased.
func (f *Form) Method() string { return f.method }

// SetMethod changes the logical HTTP method.
func (f *Form) SetMethod(method string) { f.method = strings.ToUpper(method) }

// StrictMethodCheck reports whether submissions must arrive over the
// declared method.
func (f *Form) StrictMethodCheck() bool { return f.strictMethodCheck }

// SetStrictMethodCheck toggles the strict-method requirement.
func (f *Form) SetStrictMethodCheck(strict bool) { f.strictMethodCheck = strict }

// FormAction returns the URL the form submits to.
func (f *Form) FormAction() string { return f.formAction }

// SecurityToken returns the form's CSRF token, possibly a NullToken.
func (f *Form) SecurityToken() token.Token { return f.securityToken }

// DisableSecurityToken swaps in the null token, turning off CSRF checks
// for this form only.
func (f *Form) DisableSecurityToken() {
	f.securityToken = token.NewNullToken(token.DefaultName)
}

// EnableSecurityToken swaps in a live token regardless of the global
// default.
func (f *Form) EnableSecurityToken() {
	f.securityToken = token.New(token.DefaultName)
}

// Logger returns the form's structured logger.
func (f *Form) Logger() zerolog.Logger { return f.logger }

// Message returns the form-level message, if any.
func (f *Form) Message() *validate.Message { return f.message }

// SetMessage sets the form-level message.
func (f *Form) SetMessage(m *validate.Message) { f.message = m }

// ClearMessage drops the form-level message and every field message.
func (f *Form) ClearMessage() {
	f.message = nil
	f.fields.ForEachRecursive(func(field Field) bool {
		field.SetMessage(nil)
		return true
	})
}

// FieldByName resolves a field by dot path through the field tree.
func (f *Form) FieldByName(name string) Field {
	return f.fields.FieldByName(name)
}

// DefaultAction returns the action dispatched when no action_* key is
// submitted: the configured name if set, otherwise the first action.
func (f *Form) DefaultAction() *FormAction {
	var first *FormAction
	for _, field := range f.actions.Fields() {
		action, ok := field.(*FormAction)
		if !ok {
			continue
		}
		if first == nil {
			first = action
		}
		if f.defaultActionName != "" && action.ActionName() == f.defaultActionName {
			return action
		}
	}
	if f.defaultActionName != "" {
		return nil
	}
	return first
}

// ActionByName finds the FormAction with the given unprefixed name.
func (f *Form) ActionByName(name string) *FormAction {
	for _, field := range f.actions.Fields() {
		if action, ok := field.(*FormAction); ok && action.ActionName() == name {
			return action
		}
	}
	return nil
}

// SetLegacyAllowedActions records a legacy allow-list. The mechanism is
// unsupported: a non-empty list turns a dispatch miss into a panic
// instead of a 404, so misconfiguration surfaces loudly.
func (f *Form) SetLegacyAllowedActions(names []string) {
	f.legacyAllowedActionNames = names
}

// ExtraFields returns the hidden fields injected into every rendering:
// the CSRF token field when the token is enabled, and a _method override
// when the logical method is one browsers cannot send natively.
func (f *Form) ExtraFields(sess session.Store) []Field {
	var extra []Field
	if f.securityToken.IsEnabled() {
		tokenField := NewHiddenField(f.securityToken.Name())
		tokenField.SetValue(f.securityToken.Value(sess), nil)
		tokenField.SetForm(f)
		extra = append(extra, tokenField)
	}
	if f.method != http.MethodGet && f.method != http.MethodPost {
		methodField := NewHiddenField("_method")
		methodField.SetValue(f.method, nil)
		methodField.SetReadonly(true)
		methodField.SetForm(f)
		extra = append(extra, methodField)
	}
	return extra
}

// SaveInto writes every saveable field into the record. A field named
// ClassName is deferred to the end so a polymorphic type switch cannot
// invalidate writes made against the old type. A record implementing
// record.FieldSaver gets first refusal per field.
func (f *Form) SaveInto(rec record.Record, lists ...*FieldList) error {
	fields := f.fields
	if len(lists) > 0 && lists[0] != nil {
		fields = lists[0]
	}

	saver, hasSaver := rec.(record.FieldSaver)
	var lastField Field

	saveOne := func(field Field) error {
		if hasSaver {
			handled, err := saver.SaveField(field.Name(), field.DataValue())
			if err != nil {
				return err
			}
			if handled {
				return nil
			}
		}
		return field.SaveInto(rec)
	}

	saveable := fields.SaveableFields()
	for _, name := range fields.SaveableFieldNames() {
		field := saveable[name]
		if name == "ClassName" {
			lastField = field
			continue
		}
		if err := saveOne(field); err != nil {
			return err
		}
	}
	if lastField != nil {
		return saveOne(lastField)
	}
	return nil
}

// ValidationResult runs the validator for a clicked action. Exempt
// actions, and forms without a validator, produce an empty valid result.
// Messages from a failed run are mirrored onto the fields.
func (f *Form) ValidationResult(clicked *FormAction) *validate.Result {
	if f.validator == nil || f.actionIsExempt(clicked) {
		return validate.NewResult()
	}
	result := f.validator.Validate()
	if !result.IsValid() {
		f.loadMessagesFrom(result)
	}
	return result
}

func (f *Form) actionIsExempt(clicked *FormAction) bool {
	if clicked == nil {
		return false
	}
	if clicked.ValidationExempt() {
		return true
	}
	for _, name := range f.validationExemptActions {
		if name == clicked.ActionName() {
			return true
		}
	}
	return false
}

// loadMessagesFrom mirrors a result's messages onto the form: field
// messages land on their field, form-level messages become the form
// message (first one wins).
func (f *Form) loadMessagesFrom(result *validate.Result) {
	for _, m := range result.Messages() {
		m := m
		if m.FieldName == "" {
			if f.message == nil {
				f.SetMessage(&m)
			}
			continue
		}
		if field := f.fields.DataFieldByName(m.FieldName); field != nil {
			field.SetMessage(&m)
		}
	}
}

// CanBeCached reports whether a rendering of this form may be cached:
// never with an active CSRF token, never for non-GET forms, and
// otherwise only when the validator (if any) is cacheable.
func (f *Form) CanBeCached() bool {
	if f.securityToken.IsEnabled() {
		return false
	}
	if f.method != http.MethodGet {
		return false
	}
	if f.validator == nil {
		return true
	}
	return f.validator.CanBeCached()
}

// Render produces the form's markup through the configured renderer.
func (f *Form) Render() (template.HTML, error) {
	if f.renderer == nil {
		return "", nil
	}
	return f.renderer.Render(f, []string{"forms/" + f.name, "forms/form"})
}

// sessionKey builds a dotted session key under this form's namespace.
func (f *Form) sessionKey(parts ...string) string {
	return sessionStateKey + "." + f.name + "." + strings.Join(parts, ".")
}

// SetSessionValidationResult persists a result for redisplay after a
// redirect. With combine set, an already-stored result is merged in
// rather than clobbered.
func (f *Form) SetSessionValidationResult(sess session.Store, result *validate.Result, combine bool) {
	if combine {
		if existing := f.sessionValidationResult(sess); existing != nil {
			existing.Combine(result)
			result = existing
		}
	}
	raw, err := json.Marshal(result)
	if err != nil {
		f.logger.Error().Err(err).Str("form", f.name).Msg("persist validation result")
		return
	}
	sess.Set(f.sessionKey("result"), raw)
}

// SetSessionData persists submitted data for redisplay after a redirect.
func (f *Form) SetSessionData(sess session.Store, data map[string]any) {
	raw, err := json.Marshal(data)
	if err != nil {
		f.logger.Error().Err(err).Str("form", f.name).Msg("persist form data")
		return
	}
	sess.Set(f.sessionKey("data"), raw)
}

func (f *Form) sessionValidationResult(sess session.Store) *validate.Result {
	stored, ok := sess.Get(f.sessionKey("result"))
	if !ok {
		return nil
	}
	raw, ok := stored.([]byte)
	if !ok {
		return nil
	}
	result := validate.NewResult()
	if err := json.Unmarshal(raw, result); err != nil {
		return nil
	}
	return result
}

func (f *Form) sessionData(sess session.Store) map[string]any {
	stored, ok := sess.Get(f.sessionKey("data"))
	if !ok {
		return nil
	}
	raw, ok := stored.([]byte)
	if !ok {
		return nil
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return data
}

// SessionError sets an immediate form-level error and queues it in the
// session-stored result for redisplay after redirect.
func (f *Form) SessionError(sess session.Store, message string) {
	f.sessionFeedback(sess, "", message, validate.TypeError)
}

// SessionMessage sets an immediate form-level info message and queues it
// for redisplay after redirect.
func (f *Form) SessionMessage(sess session.Store, message string) {
	f.sessionFeedback(sess, "", message, validate.TypeInfo)
}

// SessionFieldError sets an immediate field error and queues it for
// redisplay after redirect.
func (f *Form) SessionFieldError(sess session.Store, fieldName, message string) {
	f.sessionFeedback(sess, fieldName, message, validate.TypeError)
}

func (f *Form) sessionFeedback(sess session.Store, fieldName, message string, typ validate.MessageType) {
	m := validate.Message{FieldName: fieldName, Message: message, Type: typ, Cast: validate.CastText}
	if fieldName == "" {
		f.SetMessage(&m)
	} else if field := f.fields.DataFieldByName(fieldName); field != nil {
		field.SetMessage(&m)
	}

	queued := validate.NewResult()
	if fieldName == "" {
		queued.AddMessage(message, typ, validate.CastText)
	} else {
		queued.AddFieldMessage(fieldName, message, typ, validate.CastText)
	}
	f.SetSessionValidationResult(sess, queued, true)
}

// RestoreFormState pulls session-persisted validation messages and data
// back onto the form, then clears the stored state. Data restores as
// internal values: it was already normalized before persisting.
func (f *Form) RestoreFormState(sess session.Store) *Form {
	if result := f.sessionValidationResult(sess); result != nil {
		f.loadMessagesFrom(result)
	}
	if data := f.sessionData(sess); data != nil {
		f.LoadDataFrom(data, LoadOptions{Shape: ShapeInternal})
	}
	f.ClearFormState(sess)
	return f
}

// ClearFormState drops every session entry this form owns.
func (f *Form) ClearFormState(sess session.Store) {
	sess.Clear(sessionStateKey + "." + f.name)
}
