package validate

import (
	"strings"

	json "github.com/goccy/go-json"
)

// MessageType is the severity of a validation message.
type MessageType string

const (
	TypeError   MessageType = "error"
	TypeWarning MessageType = "warning"
	TypeGood    MessageType = "good"
	TypeInfo    MessageType = "info"
)

// MessageCast describes how a message body should be treated when rendered.
type MessageCast string

const (
	// CastText marks the message as plain text that must be escaped.
	CastText MessageCast = "text"

	// CastHTML marks the message as pre-escaped HTML.
	CastHTML MessageCast = "html"
)

// Message is a single validation entry: an optional field name, a message
// body, a severity, and a cast.
type Message struct {
	FieldName string      `json:"fieldName,omitempty"`
	Message   string      `json:"message"`
	Type      MessageType `json:"messageType"`
	Cast      MessageCast `json:"messageCast"`
}

// Result accumulates the messages produced by one validation pass.
// The zero value is not usable; call NewResult.
type Result struct {
	messages []Message
	valid    bool
}

// NewResult returns an empty, valid result.
func NewResult() *Result {
	return &Result{valid: true}
}

// AddError records a form-scoped error and marks the result invalid.
func (r *Result) AddError(message string) *Result {
	return r.add(Message{Message: message, Type: TypeError, Cast: CastText}, false)
}

// AddFieldError records an error scoped to the named field and marks the
// result invalid.
func (r *Result) AddFieldError(fieldName, message string) *Result {
	return r.add(Message{FieldName: fieldName, Message: message, Type: TypeError, Cast: CastText}, false)
}

// AddMessage records a form-scoped message. Messages of TypeError invalidate
// the result; other severities are informational only.
func (r *Result) AddMessage(message string, msgType MessageType, cast MessageCast) *Result {
	return r.add(Message{Message: message, Type: msgType, Cast: cast}, msgType != TypeError)
}

// AddFieldMessage records a message scoped to the named field.
func (r *Result) AddFieldMessage(fieldName, message string, msgType MessageType, cast MessageCast) *Result {
	return r.add(Message{FieldName: fieldName, Message: message, Type: msgType, Cast: cast}, msgType != TypeError)
}

func (r *Result) add(m Message, stillValid bool) *Result {
	if m.Cast == "" {
		m.Cast = CastText
	}
	r.messages = append(r.messages, m)
	if !stillValid {
		r.valid = false
	}
	return r
}

// IsValid reports whether the result carries no errors.
func (r *Result) IsValid() bool {
	return r.valid
}

// Messages returns all recorded messages in insertion order.
func (r *Result) Messages() []Message {
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// FieldMessages returns the messages scoped to the named field.
func (r *Result) FieldMessages(fieldName string) []Message {
	var out []Message
	for _, m := range r.messages {
		if m.FieldName == fieldName {
			out = append(out, m)
		}
	}
	return out
}

// FormMessages returns the messages not scoped to any field.
func (r *Result) FormMessages() []Message {
	var out []Message
	for _, m := range r.messages {
		if m.FieldName == "" {
			out = append(out, m)
		}
	}
	return out
}

// Combine folds another result into this one with AND semantics: the combined
// result is invalid if either side is, and every message from both sides is
// preserved.
func (r *Result) Combine(other *Result) *Result {
	if other == nil {
		return r
	}
	r.messages = append(r.messages, other.messages...)
	r.valid = r.valid && other.valid
	return r
}

// resultJSON is the serialized shape shared by the session store and the
// ajax error body.
type resultJSON struct {
	Valid    bool      `json:"valid"`
	Messages []Message `json:"messages"`
}

// MarshalJSON implements json.Marshaler.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Valid: r.valid, Messages: r.messages})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.valid = raw.Valid
	r.messages = raw.Messages
	return nil
}

// Error is the explicit business rejection an action handler may return. It
// wraps a Result so the dispatch boundary can convert it into the same error
// response as an ordinary validation failure.
type Error struct {
	Result *Result
}

// NewError wraps a single form-scoped error message into an Error.
func NewError(message string) *Error {
	return &Error{Result: NewResult().AddError(message)}
}

// WrapResult wraps an invalid result into an Error.
func WrapResult(result *Result) *Error {
	return &Error{Result: result}
}

// Error implements the error interface, summarizing the recorded errors.
func (e *Error) Error() string {
	if e.Result == nil || len(e.Result.messages) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Result.messages))
	for _, m := range e.Result.messages {
		if m.Type != TypeError {
			continue
		}
		if m.FieldName != "" {
			parts = append(parts, m.FieldName+": "+m.Message)
		} else {
			parts = append(parts, m.Message)
		}
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
