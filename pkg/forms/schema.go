package forms

// Schema projects the form into the JSON structure consumed by a
// front-end renderer: the structural field and action trees plus the
// current value and message state.
func (f *Form) Schema() map[string]any {
	return map[string]any{
		"id":     f.name,
		"name":   f.name,
		"action": f.formAction,
		"method": f.method,
		"schema": map[string]any{
			"fields":  schemaTree(f.fields),
			"actions": schemaTree(f.actions),
		},
		"state": f.schemaState(),
	}
}

// schemaTree renders a field list as nested schema data, descending into
// containers via a children key.
func schemaTree(list *FieldList) []map[string]any {
	out := make([]map[string]any, 0, list.Len())
	for _, field := range list.Fields() {
		node := field.SchemaData()
		if container, ok := field.(Container); ok {
			node["children"] = schemaTree(container.Children())
		}
		out = append(out, node)
	}
	return out
}

// schemaState flattens every field's state plus the form-level messages.
func (f *Form) schemaState() map[string]any {
	var fields []map[string]any
	f.fields.ForEachRecursive(func(field Field) bool {
		fields = append(fields, field.SchemaState())
		return true
	})

	var messages []map[string]any
	if f.message != nil {
		messages = append(messages, map[string]any{
			"value": f.message.Message,
			"type":  string(f.message.Type),
		})
	}
	return map[string]any{
		"id":       f.name,
		"fields":   fields,
		"messages": messages,
	}
}
