package forms

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/strata-dev/strata/pkg/upload"
)

// FileField accepts file uploads referenced by temp ID. Submissions
// arrive in the multi-file wire shape (Name[tmp_name][Uploads][i] with
// sibling attribute arrays), which the loader drains into a nested map
// and this field decodes into an upload.Set.
type FileField struct {
	FieldBase
	set        *upload.Set
	extensions []string
	multiple   bool
}

// NewFileField creates a file field.
func NewFileField(name, title string) *FileField {
	f := &FileField{}
	f.FieldBase = NewBase(f, name, title, SchemaTypeCustom)
	f.schemaComponent = "FileField"
	return f
}

// SetAllowedExtensions restricts accepted filenames by extension,
// compared case-insensitively without the leading dot.
func (f *FileField) SetAllowedExtensions(exts ...string) *FileField {
	f.extensions = exts
	return f
}

// SetMultiple allows more than one file per submission.
func (f *FileField) SetMultiple(multiple bool) *FileField {
	f.multiple = multiple
	return f
}

// Set returns the decoded upload set, which may be nil before any
// submission.
func (f *FileField) Set() *upload.Set { return f.set }

// SetSubmittedValue decodes the incoming value into the field's upload
// set: the nested wire map, or a plain list of temp IDs as produced by
// DataValue.
func (f *FileField) SetSubmittedValue(value any, data any) {
	f.set = decodeSet(value)
	f.value = value
}

// SetValue accepts a previously decoded set, a temp ID list, or the raw
// wire map.
func (f *FileField) SetValue(value any, data any) {
	if set, ok := value.(*upload.Set); ok {
		f.set = set
		f.value = value
		return
	}
	f.set = decodeSet(value)
	f.value = value
}

// decodeSet turns any accepted value shape into an upload.Set. Temp ID
// lists round-trip DataValue back into a set, so loading a form from
// its own GetData keeps file fields intact.
func decodeSet(value any) *upload.Set {
	switch v := value.(type) {
	case []string:
		return setFromTempIDs(v)
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			id, ok := item.(string)
			if !ok {
				return upload.ParseSet(value)
			}
			ids = append(ids, id)
		}
		return setFromTempIDs(ids)
	default:
		return upload.ParseSet(value)
	}
}

func setFromTempIDs(ids []string) *upload.Set {
	set := &upload.Set{}
	for _, id := range ids {
		if id == "" {
			continue
		}
		set.Items = append(set.Items, upload.Item{TempID: id})
	}
	return set
}

// DataValue yields the temp IDs of the error-free uploads.
func (f *FileField) DataValue() any {
	return f.set.TempIDs()
}

// ValueIsEmpty reports whether the submission carried no usable file:
// required checks treat an error-bearing set the same as an empty one.
func (f *FileField) ValueIsEmpty() bool {
	return f.set.IsEmpty() || f.set.HasErrors()
}

// Validate rejects upload errors, disallowed extensions and multiple
// files on a single-file field.
func (f *FileField) Validate(v Validator) bool {
	valid := true
	if f.set.HasErrors() {
		v.ValidationError(f.name, fmt.Sprintf("%s failed to upload", f.title))
		valid = false
	}
	if f.set != nil {
		if !f.multiple && len(f.set.Items) > 1 {
			v.ValidationError(f.name, fmt.Sprintf("%s accepts only one file", f.title))
			valid = false
		}
		for _, item := range f.set.Items {
			if !f.extensionAllowed(item.Filename) {
				v.ValidationError(f.name, fmt.Sprintf(
					"%s: file type of %s is not allowed", f.title, item.Filename))
				valid = false
			}
		}
	}
	return f.extendValidation(v, valid)
}

func (f *FileField) extensionAllowed(filename string) bool {
	if len(f.extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range f.extensions {
		if strings.ToLower(strings.TrimPrefix(allowed, ".")) == ext {
			return true
		}
	}
	return false
}

// ReadonlyTransformation lists the held filenames without a control.
func (f *FileField) ReadonlyTransformation() Field {
	var names []string
	if f.set != nil {
		for _, item := range f.set.Items {
			names = append(names, item.Filename)
		}
	}
	ro := NewReadonlyField(f.name, f.title)
	copyPresentation(ro, f)
	ro.SetValue(strings.Join(names, ", "), nil)
	return ro
}
