package validate

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
)

func TestNewResultIsValid(t *testing.T) {
	r := NewResult()
	if !r.IsValid() {
		t.Error("new result should be valid")
	}
	if len(r.Messages()) != 0 {
		t.Errorf("new result should have no messages, got %d", len(r.Messages()))
	}
}

func TestAddErrorInvalidates(t *testing.T) {
	r := NewResult()
	r.AddError("something went wrong")

	if r.IsValid() {
		t.Error("result with an error should be invalid")
	}
	msgs := r.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Type != TypeError {
		t.Errorf("expected error type, got %s", msgs[0].Type)
	}
	if msgs[0].Cast != CastText {
		t.Errorf("expected text cast default, got %s", msgs[0].Cast)
	}
}

func TestAddFieldError(t *testing.T) {
	r := NewResult()
	r.AddFieldError("Email", "Email is required")

	if r.IsValid() {
		t.Error("expected invalid result")
	}
	field := r.FieldMessages("Email")
	if len(field) != 1 {
		t.Fatalf("expected 1 field message, got %d", len(field))
	}
	if field[0].Message != "Email is required" {
		t.Errorf("unexpected message %q", field[0].Message)
	}
	if len(r.FormMessages()) != 0 {
		t.Error("field error should not appear in form messages")
	}
}

func TestNonErrorMessagesKeepValid(t *testing.T) {
	r := NewResult()
	r.AddMessage("saved", TypeGood, CastText)
	r.AddFieldMessage("Name", "looks fine", TypeInfo, CastText)

	if !r.IsValid() {
		t.Error("good/info messages must not invalidate the result")
	}
	if len(r.Messages()) != 2 {
		t.Errorf("expected 2 messages, got %d", len(r.Messages()))
	}
}

func TestCombinePreservesAllMessages(t *testing.T) {
	a := NewResult()
	a.AddFieldError("A", "a failed")
	b := NewResult()
	b.AddFieldError("B", "b failed")

	combined := NewResult().Combine(a).Combine(b)
	if combined.IsValid() {
		t.Error("combined result should be invalid")
	}
	if len(combined.Messages()) != 2 {
		t.Fatalf("expected both messages preserved, got %d", len(combined.Messages()))
	}
}

func TestCombineValidWithValid(t *testing.T) {
	combined := NewResult().Combine(NewResult())
	if !combined.IsValid() {
		t.Error("combining two valid results should stay valid")
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	r := NewResult()
	r.AddFieldError("Email", "Email is required")
	r.AddMessage("please fix the errors below", TypeWarning, CastHTML)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := NewResult()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.IsValid() {
		t.Error("restored result should be invalid")
	}
	msgs := restored.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages after round trip, got %d", len(msgs))
	}
	if msgs[1].Cast != CastHTML {
		t.Errorf("cast lost in round trip: %s", msgs[1].Cast)
	}
}

func TestValidationErrorUnwrapsWithAs(t *testing.T) {
	var err error = NewError("quota exceeded")

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatal("errors.As should find *validate.Error")
	}
	if verr.Result.IsValid() {
		t.Error("wrapped result should be invalid")
	}
	if verr.Error() != "validation failed: quota exceeded" {
		t.Errorf("unexpected error string %q", verr.Error())
	}
}
