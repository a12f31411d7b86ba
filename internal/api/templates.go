package api

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.Local().Format("02.01.2006 15:04")
	},
}

// loadTemplates parses the embedded page templates.
func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}
