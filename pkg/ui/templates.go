package ui

import (
	"html/template"

	"github.com/tripspend/tripspend/pkg/expense"
	"github.com/tripspend/tripspend/web"
)

// ParseTemplates parses the embedded page templates.
func ParseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"money": func(m expense.Money) string {
			return "R$ " + m.String()
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(web.TemplatesFS, "templates/*.html")
}
