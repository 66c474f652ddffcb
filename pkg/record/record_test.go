package record

import (
	"errors"
	"testing"
)

func TestMapGetSet(t *testing.T) {
	m := NewMap(map[string]any{"Title": "hello"})

	got, ok := m.Get("Title")
	if !ok || got != "hello" {
		t.Errorf("Get(Title) = %v, %v", got, ok)
	}

	if err := m.SetCastedField("Title", "changed"); err != nil {
		t.Fatalf("SetCastedField: %v", err)
	}
	got, _ = m.Get("Title")
	if got != "changed" {
		t.Errorf("expected 'changed', got %v", got)
	}
}

func TestResolvePathThroughRelations(t *testing.T) {
	inner := NewMap(map[string]any{"City": "Wellington"})
	outer := NewMap(nil)
	outer.SetRelation("Address", inner)

	got, ok := ResolvePath(outer, "Address.City")
	if !ok || got != "Wellington" {
		t.Errorf("ResolvePath = %v, %v", got, ok)
	}

	if _, ok := ResolvePath(outer, "Missing.City"); ok {
		t.Error("missing relation should not resolve")
	}
}

func TestWritePathThroughRelations(t *testing.T) {
	inner := NewMap(nil)
	outer := NewMap(nil)
	outer.SetRelation("Address", inner)

	if err := WritePath(outer, "Address.City", "Auckland"); err != nil {
		t.Fatalf("WritePath: %v", err)
	}
	got, _ := inner.Get("City")
	if got != "Auckland" {
		t.Errorf("expected relation write, got %v", got)
	}

	if err := WritePath(outer, "Missing.City", "x"); err == nil {
		t.Error("expected error for missing relation")
	}
}

func TestIDListSetByIDList(t *testing.T) {
	list := NewIDList(1, 2)
	if err := list.SetByIDList([]int{3, 4, 5}); err != nil {
		t.Fatalf("SetByIDList: %v", err)
	}
	ids := list.IDs()
	if len(ids) != 3 || ids[0] != 3 {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestSaverMapInterceptsField(t *testing.T) {
	var intercepted any
	s := NewSaverMap(nil, map[string]func(any) error{
		"Password": func(v any) error { intercepted = v; return nil },
	})

	handled, err := s.SaveField("Password", "secret")
	if err != nil || !handled {
		t.Fatalf("SaveField = %v, %v", handled, err)
	}
	if intercepted != "secret" {
		t.Errorf("hook not called with value, got %v", intercepted)
	}

	handled, err = s.SaveField("Other", "x")
	if err != nil || handled {
		t.Errorf("unhooked field should not be handled: %v, %v", handled, err)
	}
}

func TestSaverMapHookError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSaverMap(nil, map[string]func(any) error{
		"X": func(any) error { return boom },
	})

	handled, err := s.SaveField("X", 1)
	if !handled {
		t.Error("erroring hook still counts as handled")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped hook error, got %v", err)
	}
}
