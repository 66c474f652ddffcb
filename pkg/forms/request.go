package forms

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/strata-dev/strata/pkg/session"
	"github.com/strata-dev/strata/pkg/validate"
)

// RequestHandler drives a form through one submission: method check,
// variable extraction, population, CSRF check, action resolution,
// permission check, validation and dispatch, in that order. Each step
// either advances or terminates the request with its own response.
type RequestHandler struct {
	form     *Form
	sessions *session.Manager
	actions  map[string]ActionFunc
	logger   zerolog.Logger
}

// HandlerOption configures a RequestHandler.
type HandlerOption func(*RequestHandler)

// WithHandlerLogger attaches a structured logger to the handler.
func WithHandlerLogger(logger zerolog.Logger) HandlerOption {
	return func(h *RequestHandler) { h.logger = logger }
}

// NewRequestHandler creates a handler for the form, resolving sessions
// through the given manager.
func NewRequestHandler(form *Form, sessions *session.Manager, opts ...HandlerOption) *RequestHandler {
	h := &RequestHandler{
		form:     form,
		sessions: sessions,
		actions:  make(map[string]ActionFunc),
		logger:   form.Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Form returns the handled form.
func (h *RequestHandler) Form() *Form { return h.form }

// SetAction registers a handler-level action callback. Handler actions
// rank below controller actions and above the form's own callbacks in
// dispatch priority.
func (h *RequestHandler) SetAction(name string, fn ActionFunc) *RequestHandler {
	h.actions[name] = fn
	return h
}

// Mount returns a router exposing the form: submissions on the root
// path and the schema projection on /schema.
func (h *RequestHandler) Mount() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeHTTP)
	r.Post("/", h.ServeHTTP)
	r.Get("/schema", h.handleSchema)
	return r
}

// handleSchema serves the form's JSON schema projection.
func (h *RequestHandler) handleSchema(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Resolve(w, r)
	h.form.RestoreFormState(sess)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.form.Schema()); err != nil {
		h.logger.Error().Err(err).Str("form", h.form.Name()).Msg("encode schema")
	}
}

// ServeHTTP runs the submission state machine.
func (h *RequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Resolve(w, r)
	form := h.form

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	// Browsers only speak GET and POST; a _method var tunnels the
	// declared method for everything else.
	submittedMethod := strings.ToUpper(r.Method)
	if override := r.PostFormValue("_method"); override != "" {
		submittedMethod = strings.ToUpper(override)
	}

	if form.StrictMethodCheck() && submittedMethod != form.Method() {
		w.Header().Set("Allow", form.Method())
		http.Error(w,
			fmt.Sprintf("this form requires the %s method", form.Method()),
			http.StatusMethodNotAllowed)
		return
	}

	vars := h.requestVars(r)

	// Population is restricted to saveable names: readonly, disabled and
	// structural fields never accept request input even when present. A
	// form with nothing saveable skips population entirely.
	if saveable := form.Fields().SaveableFieldNames(); len(saveable) > 0 {
		form.LoadDataFrom(vars, LoadOptions{Restrict: saveable})
	}

	if stop := h.checkSecurityToken(w, r, sess, vars); stop {
		return
	}

	actionName, ok := h.resolveActionName(vars)
	if !ok {
		http.Error(w, "no form action specified", http.StatusNotFound)
		return
	}

	clicked := form.ActionByName(actionName)
	fn, source := h.resolveCallback(r, actionName, clicked)

	if fn == nil && !h.actionRecognized(r, actionName, clicked) {
		h.logger.Warn().
			Str("form", form.Name()).
			Str("action", actionName).
			Msg("action not permitted")
		http.Error(w, "action not allowed", http.StatusForbidden)
		return
	}

	result := form.ValidationResult(clicked)
	if !result.IsValid() {
		h.logger.Info().
			Str("form", form.Name()).
			Str("action", actionName).
			Int("messages", len(result.Messages())).
			Msg("validation failed")
		h.validationErrorResponse(w, r, sess, vars, result)
		return
	}

	if fn == nil {
		if len(form.legacyAllowedActionNames) > 0 {
			panic(fmt.Sprintf(
				"forms: form %s configures allowed actions, which is unsupported on RequestHandler",
				form.Name()))
		}
		http.Error(w, "no suitable action callback", http.StatusNotFound)
		return
	}

	h.logger.Debug().
		Str("form", form.Name()).
		Str("action", actionName).
		Str("dispatch", source).
		Msg("dispatching form action")

	if err := fn(w, r, vars, form); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			form.loadMessagesFrom(verr.Result)
			h.validationErrorResponse(w, r, sess, vars, verr.Result)
			return
		}
		h.logger.Error().Err(err).
			Str("form", form.Name()).
			Str("action", actionName).
			Msg("form action failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// requestVars extracts the effective submission variables. Strict mode
// restricts to the var set matching the form's method; otherwise GET and
// POST vars are merged with POST winning.
func (h *RequestHandler) requestVars(r *http.Request) map[string]any {
	vars := make(map[string]any)
	merge := func(values url.Values) {
		for key, vals := range values {
			if len(vals) == 1 {
				vars[key] = vals[0]
			} else {
				vars[key] = append([]string(nil), vals...)
			}
		}
	}
	if h.form.StrictMethodCheck() {
		if h.form.Method() == http.MethodGet {
			merge(r.URL.Query())
		} else {
			merge(r.PostForm)
		}
		return vars
	}
	merge(r.URL.Query())
	merge(r.PostForm)
	return vars
}

// checkSecurityToken enforces CSRF. A submission missing the token field
// entirely is indistinguishable from a broken client and fails hard with
// 400. A present-but-invalid token reads as an expired session: the
// submitted data is preserved, an expiry message queued, and the user
// redirected back to retry.
func (h *RequestHandler) checkSecurityToken(w http.ResponseWriter, r *http.Request, sess session.Store, vars map[string]any) bool {
	tok := h.form.SecurityToken()
	if !tok.IsEnabled() {
		return false
	}
	if _, present := vars[tok.Name()]; !present {
		http.Error(w, "security token missing from submission", http.StatusBadRequest)
		return true
	}
	if tok.CheckRequest(r, sess) {
		return false
	}

	h.form.ClearFormState(sess)
	data := make(map[string]any, len(vars))
	for key, value := range vars {
		if key == tok.Name() {
			continue
		}
		data[key] = value
	}
	h.form.SetSessionData(sess, data)
	h.form.SessionError(sess,
		"Your session has expired. Please review your submission and try again.")
	h.redirectBack(w, r)
	return true
}

// resolveActionName finds the clicked action in the submitted vars. The
// clicked button arrives as a var named action_<name>; image buttons
// append _x/_y coordinates, and a button may embed extra querystring
// pairs in its own name (action_search?Sort=Name), which merge into the
// working var set. Falls back to the form's default action.
func (h *RequestHandler) resolveActionName(vars map[string]any) (string, bool) {
	for key := range vars {
		if !strings.HasPrefix(key, ActionPrefix) {
			continue
		}
		// The querystring splits off before coordinate stripping, so a
		// suffix inside an embedded value survives intact.
		name := key[len(ActionPrefix):]
		if i := strings.IndexByte(name, '?'); i >= 0 {
			if extra, err := url.ParseQuery(name[i+1:]); err == nil {
				for k, vals := range extra {
					if len(vals) == 1 {
						vars[k] = vals[0]
					} else {
						vars[k] = append([]string(nil), vals...)
					}
				}
			}
			name = name[:i]
		}
		name = strings.TrimSuffix(name, "_x")
		name = strings.TrimSuffix(name, "_y")
		if name != "" {
			return name, true
		}
	}
	if def := h.form.DefaultAction(); def != nil {
		return def.ActionName(), true
	}
	return "", false
}

// resolveCallback walks the dispatch priority: controller, handler,
// form action callback, then a recursive field-action search.
func (h *RequestHandler) resolveCallback(r *http.Request, name string, clicked *FormAction) (ActionFunc, string) {
	if c := h.form.Controller(); c != nil {
		if fn, ok := c.Action(name); ok && c.CanInvoke(r, name) {
			return fn, "controller"
		}
	}
	if fn, ok := h.actions[name]; ok {
		return fn, "handler"
	}
	if clicked != nil {
		if fn, ok := clicked.Callback(); ok {
			return fn, "form"
		}
	}
	if fn := findFieldAction(h.form.Fields(), name); fn != nil {
		return fn, "field"
	}
	return nil, ""
}

// actionRecognized reports whether the action name is backed by a button
// or an access grant. A name that merely matches a callable with neither
// is rejected upstream with 403.
func (h *RequestHandler) actionRecognized(r *http.Request, name string, clicked *FormAction) bool {
	if clicked != nil {
		return true
	}
	if c := h.form.Controller(); c != nil {
		if _, ok := c.Action(name); ok && c.CanInvoke(r, name) {
			return true
		}
	}
	if _, ok := h.actions[name]; ok {
		return true
	}
	return findFieldAction(h.form.Fields(), name) != nil
}

// findFieldAction searches the field tree for an inline field action,
// descending into nested composites.
func findFieldAction(list *FieldList, name string) ActionFunc {
	var found ActionFunc
	list.ForEachRecursive(func(f Field) bool {
		if provider, ok := f.(FieldActionProvider); ok {
			if fn, ok := provider.FieldAction(name); ok {
				found = fn
				return false
			}
		}
		return true
	})
	return found
}

// redirectBack sends the user to the referer, or the form's own action
// URL when no referer is available.
func (h *RequestHandler) redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Referer()
	if target == "" {
		target = h.form.FormAction()
	}
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
