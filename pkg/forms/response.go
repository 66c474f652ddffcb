package forms

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/strata-dev/strata/pkg/session"
	"github.com/strata-dev/strata/pkg/validate"
)

// validationErrorResponse builds the response for a failed validation
// pass. In order of preference: a registered callback may claim the
// response outright; ajax clients accepting JSON get the structured
// message list; other ajax clients get the re-rendered form markup;
// everyone else gets their submission persisted to the session and a
// redirect back, so the re-rendered page shows the form exactly as they
// left it, annotated with errors.
func (h *RequestHandler) validationErrorResponse(w http.ResponseWriter, r *http.Request, sess session.Store, vars map[string]any, result *validate.Result) {
	form := h.form

	if form.validationErrCallback != nil && form.validationErrCallback(w, r, result) {
		return
	}

	if isAjax(r) {
		if acceptsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			if err := json.NewEncoder(w).Encode(result); err != nil {
				h.logger.Error().Err(err).Str("form", form.Name()).Msg("encode validation result")
			}
			return
		}
		markup, err := form.Render()
		if err != nil {
			h.logger.Error().Err(err).Str("form", form.Name()).Msg("render form")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(markup))
		return
	}

	form.SetSessionValidationResult(sess, result, false)
	data := make(map[string]any, len(vars))
	tokenName := form.SecurityToken().Name()
	for key, value := range vars {
		if key == tokenName || strings.HasPrefix(key, ActionPrefix) {
			continue
		}
		data[key] = value
	}
	form.SetSessionData(sess, data)

	target := r.Referer()
	if target == "" {
		target = form.FormAction()
	}
	if target == "" {
		target = "/"
	}
	if form.redirectOnValidationErr {
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		target += "#" + form.Name()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// isAjax applies the common client conventions for background requests.
func isAjax(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return r.URL.Query().Get("ajax") == "1"
}

// acceptsJSON reports whether the client asked for a JSON body.
func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
