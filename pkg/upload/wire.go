package upload

import (
	"fmt"
	"sort"
	"strconv"
)

// Item is one file of a multi-file submission.
type Item struct {
	TempID      string
	Filename    string
	ContentType string
	Size        int64

	// Error is the client-reported upload error code; "" or "0" means
	// no error.
	Error string
}

// Set is the parsed value of a file field.
type Set struct {
	Items []Item
}

// IsEmpty reports whether the submission carried no files.
func (s *Set) IsEmpty() bool {
	return s == nil || len(s.Items) == 0
}

// HasErrors reports whether any item carries an upload error.
func (s *Set) HasErrors() bool {
	if s == nil {
		return false
	}
	for _, item := range s.Items {
		if item.Error != "" && item.Error != "0" {
			return true
		}
	}
	return false
}

// TempIDs returns the temp IDs of every error-free item.
func (s *Set) TempIDs() []string {
	if s == nil {
		return nil
	}
	var ids []string
	for _, item := range s.Items {
		if item.Error == "" || item.Error == "0" {
			ids = append(ids, item.TempID)
		}
	}
	return ids
}

// wireAttrs are the per-file attribute arrays of the multi-file wire
// shape: Field[tmp_name][Uploads][i], Field[name][Uploads][i] and so on.
// Files at the same position across the arrays describe one upload.
var wireAttrs = []string{"name", "type", "tmp_name", "error", "size"}

// ParseSet decodes the parallel-array wire shape into a Set. The input
// is the nested map a form loader drains from bracket-notation keys.
// Non-map input yields an empty set.
func ParseSet(raw any) *Set {
	root, ok := raw.(map[string]any)
	if !ok {
		return &Set{}
	}

	// Flatten each attribute array to position->value, then join the
	// arrays positionally.
	byAttr := make(map[string]map[string]string, len(wireAttrs))
	positions := map[string]bool{}
	for _, attr := range wireAttrs {
		flat := map[string]string{}
		if sub, ok := root[attr]; ok {
			flattenWire(sub, "", flat)
		}
		byAttr[attr] = flat
		for pos := range flat {
			positions[pos] = true
		}
	}

	ordered := make([]string, 0, len(positions))
	for pos := range positions {
		ordered = append(ordered, pos)
	}
	sort.Strings(ordered)

	set := &Set{}
	for _, pos := range ordered {
		size, _ := strconv.ParseInt(byAttr["size"][pos], 10, 64)
		item := Item{
			TempID:      byAttr["tmp_name"][pos],
			Filename:    byAttr["name"][pos],
			ContentType: byAttr["type"][pos],
			Size:        size,
			Error:       byAttr["error"][pos],
		}
		if item.TempID == "" && item.Filename == "" {
			continue
		}
		set.Items = append(set.Items, item)
	}
	return set
}

// flattenWire reduces a nested attribute map to dotted-position keys.
func flattenWire(node any, prefix string, out map[string]string) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			childPrefix := key
			if prefix != "" {
				childPrefix = prefix + "." + key
			}
			flattenWire(child, childPrefix, out)
		}
	case []string:
		for i, s := range v {
			key := strconv.Itoa(i)
			if prefix != "" {
				key = prefix + "." + key
			}
			out[key] = s
		}
	case string:
		out[prefix] = v
	default:
		out[prefix] = fmt.Sprint(v)
	}
}
