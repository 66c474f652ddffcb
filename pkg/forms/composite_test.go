package forms

import "testing"

func TestCompositeNameSynthesis(t *testing.T) {
	single := NewCompositeField(NewTextField("Email", ""))
	if got := single.Name(); got != "EmailGroup" {
		t.Errorf("single-child name = %q, want EmailGroup", got)
	}

	multi := NewCompositeField(NewTextField("First", ""), NewTextField("Last", ""))
	if got := multi.Name(); got != "FirstLast" {
		t.Errorf("multi-child name = %q, want FirstLast", got)
	}

	multi.SetName("NameGroup")
	if got := multi.Name(); got != "NameGroup" {
		t.Errorf("explicit name = %q, want NameGroup", got)
	}
}

func TestCompositeHasNoData(t *testing.T) {
	c := NewCompositeField(NewTextField("A", ""))
	if c.HasData() {
		t.Error("composite reports HasData")
	}
	if c.CanSubmitValue() {
		t.Error("composite accepts submissions")
	}
}

func TestCompositeFanOut(t *testing.T) {
	a := NewTextField("A", "")
	b := NewTextField("B", "")
	c := NewCompositeField(a, NewCompositeField(b))

	c.SetDisabled(true)
	if !a.IsDisabled() {
		t.Error("direct child not disabled")
	}
	if !b.IsDisabled() {
		t.Error("nested child not disabled")
	}
}

func TestCompositeReadonlyTransformationPurity(t *testing.T) {
	a := NewTextField("A", "")
	a.SetValue("x", nil)
	c := NewCompositeField(a)

	ro := c.ReadonlyTransformation()

	if a.IsReadonly() {
		t.Error("original child mutated")
	}
	roc, ok := ro.(*CompositeField)
	if !ok {
		t.Fatalf("transform returned %T", ro)
	}
	child := roc.Children().Fields()[0]
	if !child.IsReadonly() {
		t.Error("transformed child not readonly")
	}
	if child.DataValue() != "x" {
		t.Errorf("child value = %v, want x", child.DataValue())
	}
	if child == Field(a) {
		t.Error("transform reused the original child")
	}
}

func TestCollateDataFields(t *testing.T) {
	ro := NewTextField("RO", "")
	ro.SetReadonly(true)
	c := NewCompositeField(
		NewTextField("A", ""),
		NewCompositeField(NewTextField("B", "")),
		ro,
		NewLiteralField("Sep", "<hr>"),
	)

	all := c.CollateDataFields(false)
	if len(all) != 3 {
		t.Errorf("collated %d fields, want 3", len(all))
	}
	saveable := c.CollateDataFields(true)
	if len(saveable) != 2 {
		t.Errorf("collated %d saveable fields, want 2", len(saveable))
	}
	if _, ok := saveable["RO"]; ok {
		t.Error("readonly field collated as saveable")
	}
}

func TestTabSetTabLookup(t *testing.T) {
	main := NewTab("Main", "Main")
	ts := NewTabSet("Root", main, NewTab("Other", "Other"))
	if got := ts.Tab("Main"); got != main {
		t.Errorf("Tab(Main) = %v", got)
	}
	if got := ts.Tab("Missing"); got != nil {
		t.Errorf("Tab(Missing) = %v, want nil", got)
	}
}
