package prompt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

type Renderer struct {
	Templates ports.TemplateRepository
}

func New(templates ports.TemplateRepository) *Renderer { return &Renderer{Templates: templates} }

var funcs = template.FuncMap{
	"join": strings.Join,
}

// Source returns the effective template body for (typ, role) and whether it
// is a stored one rather than the builtin.
func (r *Renderer) Source(ctx context.Context, scope string, refID *int64, typ, role string) (string, bool, error) {
	if r.Templates != nil {
		t, err := r.Templates.GetEffective(ctx, scope, refID, typ, role)
		if err != nil {
			return "", false, fmt.Errorf("load template %s/%s: %w", typ, role, err)
		}
		if t != nil && t.Body != "" {
			return t.Body, true, nil
		}
	}
	if body := builtinTemplate(typ, role); body != "" {
		return body, false, nil
	}
	return "", false, fmt.Errorf("no template for %s/%s", typ, role)
}

// Render executes the effective template for (typ, role).
func (r *Renderer) Render(ctx context.Context, scope string, refID *int64, typ, role string, data ports.PromptData) (string, error) {
	body, _, err := r.Source(ctx, scope, refID, typ, role)
	if err != nil {
		return "", err
	}
	tpl, err := parse(typ+"/"+role, body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Check parses body and runs it against a sample message, so a broken
// template is rejected before it is stored.
func Check(body string) error {
	tpl, err := parse("check", body)
	if err != nil {
		return err
	}
	sample := ports.PromptData{SrcLang: "en", TgtLang: "de", Key: "MainWindow|Open|", Text: "Open __PH_0__", Context: "MainWindow", Placeholders: []string{"%1"}}
	return tpl.Execute(io.Discard, sample)
}

func parse(name, body string) (*template.Template, error) {
	return template.New(name).Funcs(funcs).Parse(body)
}

const translateSystem = `You are a professional software localization translator working on Qt user interface strings. Translate from {{.SrcLang}} to {{.TgtLang}}.
Keep every token of the form __PH_n__ and __TAG_n__ exactly as written; they stand for placeholders such as %1, %n and rich-text markup.
Do not add or drop leading or trailing whitespace. Keep the tone short and suitable for buttons, menus and labels.
{{- if .Numerus}}
The text is a plural form template: %n is the count.
{{- end}}
Return only JSON: {"translation":"..."}.`

const translateUser = `{{if .Context}}context: {{.Context}}
{{end}}{{if .Comment}}disambiguation: {{.Comment}}
{{end}}{{if .Placeholders}}placeholders: {{join .Placeholders " "}}
{{end}}source: {{.Text}}`

func builtinTemplate(typ, role string) string {
	if typ != domain.TemplateTranslate {
		return ""
	}
	switch role {
	case domain.RoleSystem:
		return translateSystem
	case domain.RoleUser:
		return translateUser
	}
	return ""
}
