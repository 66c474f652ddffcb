package forms

import "testing"

func requiredTestForm(v Validator, fields ...Field) *Form {
	return New("TestForm", NewFieldList(fields...), nil, WithValidator(v))
}

func TestRequiredFieldsNoShortCircuit(t *testing.T) {
	v := NewRequiredFields("First", "Last")
	requiredTestForm(v, NewTextField("First", ""), NewTextField("Last", ""))

	result := v.Validate()

	if result.IsValid() {
		t.Error("empty required fields validated")
	}
	if got := len(result.Messages()); got != 2 {
		t.Fatalf("got %d messages, want 2 (one per field)", got)
	}
	if len(result.FieldMessages("First")) != 1 || len(result.FieldMessages("Last")) != 1 {
		t.Error("errors not scoped one per field")
	}
}

func TestRequiredFieldsPresentValuePasses(t *testing.T) {
	v := NewRequiredFields("Name")
	f := NewTextField("Name", "")
	requiredTestForm(v, f)
	f.SetValue("Ada", nil)

	if result := v.Validate(); !result.IsValid() {
		t.Errorf("present value rejected: %v", result.Messages())
	}
}

func TestRequiredFieldsRunsFieldRules(t *testing.T) {
	// Field-local rules run for every data field, required or not.
	v := NewRequiredFields()
	num := NewNumericField("Qty", "Quantity")
	requiredTestForm(v, num)
	num.SetSubmittedValue("abc", nil)

	result := v.Validate()
	if result.IsValid() {
		t.Error("field rule failure ignored")
	}
}

func TestRequiredHasOneRelationZeroIsEmpty(t *testing.T) {
	v := NewRequiredFields("TeamID")
	dd := NewDropdownField("TeamID", "Team", []SelectOption{{Value: "1", Title: "One"}}).
		MarkHasOneRelation()
	requiredTestForm(v, dd)

	dd.SetValue("0", nil)
	if v.Validate().IsValid() {
		t.Error(`relation value "0" accepted as present`)
	}

	dd.SetValue("1", nil)
	if !v.Validate().IsValid() {
		t.Error("selected relation rejected")
	}
}

func TestRequiredPlainZeroIsPresent(t *testing.T) {
	v := NewRequiredFields("Qty")
	num := NewNumericField("Qty", "")
	requiredTestForm(v, num)
	num.SetSubmittedValue("0", nil)

	if result := v.Validate(); !result.IsValid() {
		t.Errorf("numeric zero rejected as empty: %v", result.Messages())
	}
}

func TestRequiredCustomMessage(t *testing.T) {
	v := NewRequiredFields("Email")
	f := NewTextField("Email", "Email")
	f.SetCustomValidationMessage("We need your email to reply")
	requiredTestForm(v, f)

	msgs := v.Validate().FieldMessages("Email")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Message != "We need your email to reply" {
		t.Errorf("message = %q", msgs[0].Message)
	}
}

func TestRequiredDefaultMessageUsesTitle(t *testing.T) {
	v := NewRequiredFields("Email")
	requiredTestForm(v, NewTextField("Email", "Email Address"))

	msgs := v.Validate().FieldMessages("Email")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if want := `"Email Address" is required`; msgs[0].Message != want {
		t.Errorf("message = %q, want %q", msgs[0].Message, want)
	}
}

func TestRequiredSetManagement(t *testing.T) {
	v := NewRequiredFields("A", "B", "A")
	if got := v.Required(); len(got) != 2 {
		t.Errorf("duplicates kept: %v", got)
	}
	v.RemoveRequiredField("A")
	if v.FieldIsRequired("A") {
		t.Error("removed name still required")
	}
	if !v.FieldIsRequired("B") {
		t.Error("unrelated name dropped")
	}

	other := NewRequiredFields("B", "C")
	v.AppendRequiredFields(other)
	if !v.FieldIsRequired("C") || len(v.Required()) != 2 {
		t.Errorf("append merged wrong: %v", v.Required())
	}
}

func TestRequiredDisabledValidatorPasses(t *testing.T) {
	v := NewRequiredFields("Name")
	requiredTestForm(v, NewTextField("Name", ""))
	v.SetEnabled(false)

	result := v.Validate()
	if !result.IsValid() || len(result.Messages()) != 0 {
		t.Error("disabled validator produced messages")
	}
}

func TestRequiredCanBeCached(t *testing.T) {
	if !NewRequiredFields().CanBeCached() {
		t.Error("empty required set should be cacheable")
	}
	if NewRequiredFields("Name").CanBeCached() {
		t.Error("non-empty required set should not be cacheable")
	}
}
