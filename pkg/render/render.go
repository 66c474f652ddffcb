// Package render defines the templating contract the form layer renders
// through. The form layer never assumes a specific templating technology;
// it hands a value and an ordered list of candidate template names to a
// Renderer and gets markup back.
package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Renderer turns a value plus an ordered candidate-template list into markup.
// The first candidate the renderer knows wins.
type Renderer interface {
	Render(value any, templates []string) (template.HTML, error)
}

// TemplateRenderer is the html/template-backed Renderer.
type TemplateRenderer struct {
	set *template.Template
}

// NewTemplateRenderer wraps a parsed template set.
func NewTemplateRenderer(set *template.Template) *TemplateRenderer {
	return &TemplateRenderer{set: set}
}

// Render executes the first candidate template present in the set.
func (r *TemplateRenderer) Render(value any, templates []string) (template.HTML, error) {
	if r.set == nil {
		return "", fmt.Errorf("render: no template set configured")
	}
	for _, name := range templates {
		t := r.set.Lookup(name)
		if t == nil {
			continue
		}
		var b strings.Builder
		if err := t.Execute(&b, value); err != nil {
			return "", fmt.Errorf("render: template %q: %w", name, err)
		}
		return template.HTML(b.String()), nil
	}
	return "", fmt.Errorf("render: none of %v found", templates)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(value any, templates []string) (template.HTML, error)

func (f RendererFunc) Render(value any, templates []string) (template.HTML, error) {
	return f(value, templates)
}
