package forms

import (
	"testing"

	"github.com/strata-dev/strata/pkg/validate"
)

func TestValidationMessageCarriesSeverityAndCast(t *testing.T) {
	v := NewRequiredFields()

	v.ValidationMessage("Name", "almost full", validate.TypeWarning, validate.CastText)
	v.ValidationMessage("Bio", "<b>rendered</b>", validate.TypeError, validate.CastHTML)

	result := v.Result()
	if result.IsValid() {
		t.Error("error-severity message left the result valid")
	}

	warnings := result.FieldMessages("Name")
	if len(warnings) != 1 || warnings[0].Type != validate.TypeWarning {
		t.Errorf("warning message = %v", warnings)
	}
	html := result.FieldMessages("Bio")
	if len(html) != 1 || html[0].Cast != validate.CastHTML {
		t.Errorf("html message = %v", html)
	}
}

func TestValidationWarningAloneStaysValid(t *testing.T) {
	v := NewRequiredFields()
	v.ValidationMessage("Name", "heads up", validate.TypeWarning, validate.CastText)

	if !v.Result().IsValid() {
		t.Error("warning-only result reported invalid")
	}
}
