// Package live validates single fields over a WebSocket, so clients can
// surface errors while the user types instead of waiting for submission.
package live

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/strata-dev/strata/pkg/forms"
	"github.com/strata-dev/strata/pkg/validate"
)

// Request is one client message: a field name and a candidate value.
type Request struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Response carries the validation outcome for one Request.
type Response struct {
	Field    string             `json:"field"`
	Valid    bool               `json:"valid"`
	Messages []validate.Message `json:"messages"`
}

// Validator answers field-level validation requests for one form over a
// WebSocket connection.
type Validator struct {
	form        *forms.Form
	upgrader    websocket.Upgrader
	readTimeout time.Duration
	logger      zerolog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithReadTimeout bounds how long a connection may idle between
// requests. Defaults to one minute.
func WithReadTimeout(timeout time.Duration) Option {
	return func(v *Validator) { v.readTimeout = timeout }
}

// WithLogger attaches a structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// WithCheckOrigin overrides the upgrader's origin policy.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(v *Validator) { v.upgrader.CheckOrigin = check }
}

// New creates a live validator for the form.
func New(form *forms.Form, opts ...Option) *Validator {
	v := &Validator{
		form: form,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		readTimeout: time.Minute,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ServeHTTP upgrades the connection and answers validation requests
// until the client disconnects.
func (v *Validator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		conn.SetReadDeadline(time.Now().Add(v.readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				v.logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			v.logger.Debug().Err(err).Msg("malformed live validation request")
			continue
		}

		resp := v.validateField(req)
		payload, err := json.Marshal(resp)
		if err != nil {
			v.logger.Error().Err(err).Msg("encode live validation response")
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// validateField applies the candidate value and runs the form's
// validator, reporting only the requested field's messages.
func (v *Validator) validateField(req Request) Response {
	field := v.form.Fields().DataFieldByName(req.Field)
	if field == nil || !field.CanSubmitValue() {
		return Response{Field: req.Field, Valid: false, Messages: []validate.Message{{
			FieldName: req.Field,
			Message:   "unknown field",
			Type:      validate.TypeError,
			Cast:      validate.CastText,
		}}}
	}

	field.SetSubmittedValue(req.Value, nil)

	validator := v.form.Validator()
	if validator == nil {
		return Response{Field: req.Field, Valid: true}
	}
	result := validator.Validate()
	messages := result.FieldMessages(req.Field)
	return Response{
		Field:    req.Field,
		Valid:    len(messages) == 0,
		Messages: messages,
	}
}
