package forms

import (
	"testing"

	"github.com/strata-dev/strata/pkg/record"
)

func TestTitleFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"FirstName", "First Name"},
		{"Email", "Email"},
		{"MyURLField", "My URLField"},
		{"Team.Name", "Name"},
		{"Attachments[Uploads]", "Attachments"},
	}
	for _, tt := range tests {
		if got := TitleFromName(tt.name); got != tt.want {
			t.Errorf("TitleFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFieldDefaultsTitle(t *testing.T) {
	f := NewTextField("FirstName", "")
	if f.Title() != "First Name" {
		t.Errorf("Title() = %q, want %q", f.Title(), "First Name")
	}
	f2 := NewTextField("FirstName", "Given Name")
	if f2.Title() != "Given Name" {
		t.Errorf("explicit title overridden: got %q", f2.Title())
	}
}

func TestReadonlyTransformationPurity(t *testing.T) {
	f := NewTextField("Email", "Email")
	f.SetValue("a@example.com", nil)
	f.AddExtraClass("wide")

	ro := f.ReadonlyTransformation()

	if f.IsReadonly() {
		t.Error("original became readonly")
	}
	if !ro.IsReadonly() {
		t.Error("transformed copy is not readonly")
	}
	if ro.DataValue() != f.DataValue() {
		t.Errorf("data value changed: %v != %v", ro.DataValue(), f.DataValue())
	}
	if got := ro.ExtraClasses(); len(got) != 1 || got[0] != "wide" {
		t.Errorf("extra classes not carried: %v", got)
	}
}

func TestCanSubmitValue(t *testing.T) {
	f := NewTextField("Name", "")
	if !f.CanSubmitValue() {
		t.Error("plain field should accept submissions")
	}
	f.SetReadonly(true)
	if f.CanSubmitValue() {
		t.Error("readonly field accepted a submission")
	}
	f.SetReadonly(false)
	f.SetDisabled(true)
	if f.CanSubmitValue() {
		t.Error("disabled field accepted a submission")
	}

	lit := NewLiteralField("Note", "<p>hi</p>")
	if lit.CanSubmitValue() {
		t.Error("structural field accepted a submission")
	}
}

func TestCheckboxSubmittedValue(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{"1", true},
		{"on", true},
		{"true", true},
		{"0", false},
		{"", false},
		{nil, false},
		{true, true},
	}
	for _, tt := range tests {
		f := NewCheckboxField("Agree", "")
		f.SetSubmittedValue(tt.in, nil)
		if got := f.DataValue(); got != tt.want {
			t.Errorf("SetSubmittedValue(%v): DataValue() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNumericFieldParsing(t *testing.T) {
	f := NewNumericField("Price", "Price")
	f.SetSubmittedValue("12.5", nil)
	if f.Value() != 12.5 {
		t.Errorf("parsed value = %v, want 12.5", f.Value())
	}

	f.SetSubmittedValue("twelve", nil)
	v := NewRequiredFields()
	if f.Validate(v) {
		t.Error("unparseable input passed validation")
	}
	msgs := v.Result().FieldMessages("Price")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if want := "'twelve' is not a number"; msgs[0].Message != want {
		t.Errorf("message = %q, want %q", msgs[0].Message, want)
	}
}

func TestNumericFieldBounds(t *testing.T) {
	f := NewNumericField("Qty", "Quantity").SetMin(1).SetMax(10)

	f.SetSubmittedValue("0", nil)
	v := NewRequiredFields()
	if f.Validate(v) {
		t.Error("below-min value passed")
	}

	f.SetSubmittedValue("11", nil)
	v = NewRequiredFields()
	if f.Validate(v) {
		t.Error("above-max value passed")
	}

	f.SetSubmittedValue("5", nil)
	v = NewRequiredFields()
	if !f.Validate(v) {
		t.Error("in-range value failed")
	}
}

func TestDropdownValidatesSource(t *testing.T) {
	f := NewDropdownField("Color", "", []SelectOption{
		{Value: "r", Title: "Red"},
		{Value: "g", Title: "Green"},
	})

	f.SetSubmittedValue("g", nil)
	v := NewRequiredFields()
	if !f.Validate(v) {
		t.Error("listed option rejected")
	}

	f.SetSubmittedValue("b", nil)
	v = NewRequiredFields()
	if f.Validate(v) {
		t.Error("unlisted option accepted")
	}
}

func TestTextFieldMaxLength(t *testing.T) {
	f := NewTextField("Code", "").SetMaxLength(3)
	f.SetSubmittedValue("abcd", nil)
	v := NewRequiredFields()
	if f.Validate(v) {
		t.Error("overlong value passed")
	}
	f.SetSubmittedValue("abc", nil)
	v = NewRequiredFields()
	if !f.Validate(v) {
		t.Error("at-limit value failed")
	}
}

func TestSaveIntoDotPath(t *testing.T) {
	team := record.NewMap(map[string]any{})
	rec := record.NewMap(map[string]any{})
	rec.SetRelation("Team", team)

	f := NewTextField("Team.Name", "")
	f.SetValue("Gophers", nil)
	if err := f.SaveInto(rec); err != nil {
		t.Fatalf("SaveInto: %v", err)
	}
	got, _ := team.Get("Name")
	if got != "Gophers" {
		t.Errorf("relation value = %v, want Gophers", got)
	}
}

func TestSaveIntoRelationList(t *testing.T) {
	rec := record.NewMap(map[string]any{})
	list := record.NewIDList()
	rec.SetRelationList("Tags", list)

	f := NewTextField("Tags", "")
	f.SetValue([]int{3, 5}, nil)
	if err := f.SaveInto(rec); err != nil {
		t.Fatalf("SaveInto: %v", err)
	}
	ids := list.IDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 5 {
		t.Errorf("relation list = %v, want [3 5]", ids)
	}
}

func TestValidationHookOverridesOutcome(t *testing.T) {
	f := NewTextField("Name", "")
	f.AddValidationHook(func(field Field, v Validator, valid bool) bool {
		v.ValidationError(field.Name(), "rejected by hook")
		return false
	})
	v := NewRequiredFields()
	if f.Validate(v) {
		t.Error("hook rejection ignored")
	}
}

func TestSchemaDataAllowList(t *testing.T) {
	f := NewTextField("Name", "")
	f.SetSchemaData(map[string]any{
		"title":      "Override",
		"notAllowed": "dropped",
	})
	data := f.SchemaData()
	if data["title"] != "Override" {
		t.Errorf("allowed override lost: %v", data["title"])
	}
	if _, ok := data["notAllowed"]; ok {
		t.Error("disallowed key stored")
	}
}
