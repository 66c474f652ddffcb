package forms

import (
	"testing"

	"github.com/strata-dev/strata/pkg/validate"
)

// stubValidator records whether it ran and returns a fixed result.
type stubValidator struct {
	ValidatorBase
	ran      bool
	messages []string
	cacheable bool
}

func (s *stubValidator) Validate() *validate.Result {
	s.ran = true
	s.ResetResult()
	for _, m := range s.messages {
		s.Result().AddError(m)
	}
	return s.Result()
}

func (s *stubValidator) CanBeCached() bool { return s.cacheable }

func newStub(messages ...string) *stubValidator {
	return &stubValidator{ValidatorBase: NewValidatorBase(), messages: messages}
}

func TestCompositeValidatorANDSemantics(t *testing.T) {
	a := newStub()
	b := newStub("b failed")
	c := NewCompositeValidator(a, b)

	result := c.Validate()

	if result.IsValid() {
		t.Error("chain with an invalid child reported valid")
	}
	if !a.ran {
		t.Error("valid child skipped after composition")
	}
	if len(result.Messages()) != 1 || result.Messages()[0].Message != "b failed" {
		t.Errorf("messages = %v", result.Messages())
	}
}

func TestCompositeValidatorAllChildrenRun(t *testing.T) {
	a := newStub("a failed")
	b := newStub("b failed")
	c := NewCompositeValidator(a, b)

	result := c.Validate()

	if !a.ran || !b.ran {
		t.Error("a failing child short-circuited the chain")
	}
	if got := len(result.Messages()); got != 2 {
		t.Errorf("got %d messages, want both children's", got)
	}
}

func TestCompositeValidatorDisabled(t *testing.T) {
	a := newStub("a failed")
	c := NewCompositeValidator(a)
	c.SetEnabled(false)

	result := c.Validate()
	if !result.IsValid() {
		t.Error("disabled chain reported invalid")
	}
	if a.ran {
		t.Error("disabled chain ran a child")
	}
}

func TestCompositeValidatorSetFormPropagates(t *testing.T) {
	a := newStub()
	c := NewCompositeValidator(a)
	form := New("F", nil, nil, WithValidator(c))
	if a.Form() != form {
		t.Error("child not bound to form")
	}

	late := newStub()
	c.AddValidator(late)
	if late.Form() != form {
		t.Error("late-added child not bound to form")
	}
}

func TestCompositeValidatorCanBeCached(t *testing.T) {
	cacheable := newStub()
	cacheable.cacheable = true
	notCacheable := newStub()

	if !NewCompositeValidator(cacheable).CanBeCached() {
		t.Error("all-cacheable chain not cacheable")
	}
	if NewCompositeValidator(cacheable, notCacheable).CanBeCached() {
		t.Error("chain with uncacheable child reported cacheable")
	}
}

func TestValidatorsByType(t *testing.T) {
	req := NewRequiredFields("A")
	stub := newStub()
	c := NewCompositeValidator(req, stub)

	got := ValidatorsByType[*RequiredFields](c)
	if len(got) != 1 || got[0] != req {
		t.Errorf("ValidatorsByType = %v", got)
	}

	RemoveValidatorsByType[*RequiredFields](c)
	if len(c.Validators()) != 1 {
		t.Errorf("validators after removal = %v", c.Validators())
	}
	if _, ok := c.Validators()[0].(*stubValidator); !ok {
		t.Error("wrong validator removed")
	}
}
