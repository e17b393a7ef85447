package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/princeprakhar/bookmind/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var statusLabels = map[string]string{
	models.StatusRead:       "Read",
	models.StatusReading:    "Reading",
	models.StatusWantToRead: "Want to read",
	models.StatusAbandoned:  "Abandoned",
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"statusLabel": func(status string) string {
			if label, ok := statusLabels[status]; ok {
				return label
			}
			return status
		},
		"excerpt": func(s string, n int) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return strings.TrimSpace(string(r[:n])) + "…"
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// Templates parses every page and partial. It panics on a broken template
// since the set is compiled into the binary.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html"))
}
