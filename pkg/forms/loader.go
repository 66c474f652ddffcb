package forms

import (
	"strings"

	"github.com/strata-dev/strata/pkg/record"
)

// ValueShape selects which setter LoadDataFrom applies to each field.
type ValueShape int

const (
	// ShapeAuto picks per source: records load as internal values,
	// maps load as submitted values.
	ShapeAuto ValueShape = iota

	// ShapeInternal forces SetValue, treating the source as canonical.
	ShapeInternal

	// ShapeSubmitted forces SetSubmittedValue, treating the source as
	// raw user input.
	ShapeSubmitted
)

// LoadOptions configures a LoadDataFrom merge. The zero value is the
// default strategy: any present value overrides, missing keys leave the
// field untouched, and the setter is chosen per source shape.
type LoadOptions struct {
	// ClearMissing clears fields absent from the source instead of
	// leaving them untouched.
	ClearMissing bool

	// IgnoreFalseish keeps a field's existing value when the source
	// holds a present-but-falseish value for it.
	IgnoreFalseish bool

	// Shape overrides the internal-vs-submitted setter choice.
	Shape ValueShape

	// Restrict, when non-nil, is an allow-list of field names; fields
	// outside it are never touched. An empty non-nil list blocks all
	// population.
	Restrict []string
}

// LoadDataFrom binds a source into every data field of the form. The
// source is either a record.Record (loaded as internal values, with
// dot-path relation traversal) or a map[string]any (loaded as submitted
// values, with bracket-notation key extraction). Map sources honor a
// "<name>_unchanged" sentinel key that pins a field regardless of the
// other options.
func (f *Form) LoadDataFrom(source any, opts LoadOptions) *Form {
	var (
		rec record.Record
		m   map[string]any
	)
	switch s := source.(type) {
	case record.Record:
		rec = s
		f.record = s
	case map[string]any:
		m = s
	default:
		return f
	}

	var allow map[string]bool
	if opts.Restrict != nil {
		allow = make(map[string]bool, len(opts.Restrict))
		for _, name := range opts.Restrict {
			allow[name] = true
		}
	}

	fields := f.Fields().DataFields()
	for _, name := range f.Fields().DataFieldNames() {
		if allow != nil && !allow[name] {
			continue
		}
		field := fields[name]

		if m != nil {
			if _, pinned := m[name+"_unchanged"]; pinned {
				continue
			}
		}

		value, exists := lookupSourceValue(rec, m, name)
		if !exists {
			if opts.ClearMissing {
				field.SetValue(nil, source)
			}
			continue
		}
		if opts.IgnoreFalseish && falseish(value) {
			continue
		}

		shape := opts.Shape
		if shape == ShapeAuto {
			if m != nil {
				shape = ShapeSubmitted
			} else {
				shape = ShapeInternal
			}
		}
		if shape == ShapeSubmitted {
			field.SetSubmittedValue(value, source)
		} else {
			field.SetValue(value, source)
		}
	}
	return f
}

// GetData returns the current data-field values keyed by name, in field
// order, using each field's DataValue projection.
func (f *Form) GetData() map[string]any {
	fields := f.Fields().DataFields()
	data := make(map[string]any, len(fields))
	for name, field := range fields {
		data[name] = field.DataValue()
	}
	return data
}

// lookupSourceValue resolves a field name against whichever source is
// set. Record sources traverse dotted paths through relations; map
// sources try the exact key first, then drain bracket-notation entries
// ("Name[sub][sub2]") into a nested map value.
func lookupSourceValue(rec record.Record, m map[string]any, name string) (any, bool) {
	if rec != nil {
		return record.ResolvePath(rec, name)
	}
	if value, ok := m[name]; ok {
		return value, true
	}
	return drainBracketKeys(m, name)
}

// drainBracketKeys collects every source key of the form
// "name[a][b]..." into a nested map rooted at name. Returns false when
// no such key exists.
func drainBracketKeys(m map[string]any, name string) (any, bool) {
	collected := map[string]any{}
	found := false
	for key, value := range m {
		if !strings.HasPrefix(key, name+"[") {
			continue
		}
		segments, ok := splitBracketKey(key[len(name):])
		if !ok {
			continue
		}
		found = true
		node := collected
		for _, seg := range segments[:len(segments)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[seg] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = value
	}
	if !found {
		return nil, false
	}
	return collected, true
}

// splitBracketKey parses "[a][b][c]" into its segments.
func splitBracketKey(suffix string) ([]string, bool) {
	var segments []string
	for len(suffix) > 0 {
		if suffix[0] != '[' {
			return nil, false
		}
		end := strings.IndexByte(suffix, ']')
		if end < 0 {
			return nil, false
		}
		segments = append(segments, suffix[1:end])
		suffix = suffix[end+1:]
	}
	return segments, len(segments) > 0
}

// falseish reports whether a value should be ignored under
// IgnoreFalseish: nil, empty string, "0", false, and numeric zero all
// count.
func falseish(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == "" || v == "0"
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}
