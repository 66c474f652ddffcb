package forms

import (
	"fmt"
	"strings"
)

// Tab is a structural grouping rendered as one pane of a TabSet.
type Tab struct {
	CompositeField
}

// NewTab creates a tab. Tab names are single path segments; a dotted name
// is a programming error.
func NewTab(name, title string, children ...Field) *Tab {
	if strings.Contains(name, ".") {
		panic(fmt.Sprintf("forms: tab name %q must not contain dots", name))
	}
	t := &Tab{}
	t.initComposite(t, name, title, children...)
	t.schemaComponent = "Tab"
	return t
}

// TabSet holds an ordered set of Tabs (or nested TabSets).
type TabSet struct {
	CompositeField
}

// NewTabSet creates a tab set holding the given tabs.
func NewTabSet(name string, tabs ...Field) *TabSet {
	if strings.Contains(name, ".") {
		panic(fmt.Sprintf("forms: tab set name %q must not contain dots", name))
	}
	ts := &TabSet{}
	ts.initComposite(ts, name, TitleFromName(name), tabs...)
	ts.schemaComponent = "Tabs"
	return ts
}

// Tab returns the direct child tab with the given name, if present.
func (ts *TabSet) Tab(name string) *Tab {
	for _, f := range ts.Children().Fields() {
		if tab, ok := f.(*Tab); ok && tab.Name() == name {
			return tab
		}
	}
	return nil
}

// FindOrMakeTab resolves a dot-separated tab path ("Root.Main.Sub"),
// creating missing nodes: every segment but the last is a TabSet, the last
// is a Tab. The title applies only to the innermost created Tab. A path
// segment resolving to a field of the wrong kind is a programming error
// and panics.
func (l *FieldList) FindOrMakeTab(path, title string) *Tab {
	segments := strings.Split(path, ".")
	current := l
	for _, segment := range segments[:len(segments)-1] {
		existing := current.directByName(segment)
		if existing == nil {
			ts := NewTabSet(segment)
			current.Push(ts)
			current = ts.Children()
			continue
		}
		ts, ok := existing.(*TabSet)
		if !ok {
			panic(fmt.Sprintf(
				"forms: tab path %q: segment %q is a %T, not a TabSet", path, segment, existing))
		}
		current = ts.Children()
	}

	leaf := segments[len(segments)-1]
	existing := current.directByName(leaf)
	if existing == nil {
		tab := NewTab(leaf, title)
		current.Push(tab)
		return tab
	}
	tab, ok := existing.(*Tab)
	if !ok {
		panic(fmt.Sprintf(
			"forms: tab path %q: segment %q is a %T, not a Tab", path, leaf, existing))
	}
	return tab
}

// AddFieldToTab pushes a field onto the tab at the given path, creating
// the path as needed.
func (l *FieldList) AddFieldToTab(path string, f Field) {
	l.FindOrMakeTab(path, "").Children().Push(f)
}

// AddFieldToTabBefore inserts a field into the tab at the given path,
// immediately before the named sibling (appending when absent).
func (l *FieldList) AddFieldToTabBefore(path string, f Field, before string) {
	l.FindOrMakeTab(path, "").Children().InsertBefore(before, f, true)
}

// AddFieldsToTab pushes several fields onto the tab at the given path.
func (l *FieldList) AddFieldsToTab(path string, fields ...Field) {
	tab := l.FindOrMakeTab(path, "")
	for _, f := range fields {
		tab.Children().Push(f)
	}
}

// directByName finds a direct member by name without descending.
func (l *FieldList) directByName(name string) Field {
	for _, f := range l.items {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
