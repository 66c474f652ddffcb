package render

import (
	"html/template"
	"strings"
	"testing"
)

func TestRenderFirstCandidateWins(t *testing.T) {
	set := template.Must(template.New("TextField").Parse(`<input name="{{.}}">`))
	template.Must(set.New("FormField").Parse(`<span>{{.}}</span>`))

	r := NewTemplateRenderer(set)
	out, err := r.Render("Email", []string{"EmailField", "TextField", "FormField"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<input") {
		t.Errorf("expected TextField candidate to win, got %q", out)
	}
}

func TestRenderFallsBackThroughCandidates(t *testing.T) {
	set := template.Must(template.New("FormField").Parse(`generic`))

	r := NewTemplateRenderer(set)
	out, err := r.Render(nil, []string{"Special", "FormField"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "generic" {
		t.Errorf("expected fallback candidate, got %q", out)
	}
}

func TestRenderNoCandidateFound(t *testing.T) {
	r := NewTemplateRenderer(template.New("empty"))
	if _, err := r.Render(nil, []string{"Missing"}); err == nil {
		t.Error("expected error when no candidate exists")
	}
}

func TestRendererFunc(t *testing.T) {
	r := RendererFunc(func(value any, templates []string) (template.HTML, error) {
		return template.HTML("custom"), nil
	})
	out, err := r.Render(nil, nil)
	if err != nil || out != "custom" {
		t.Errorf("RendererFunc = %q, %v", out, err)
	}
}
