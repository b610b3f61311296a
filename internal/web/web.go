package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/BruksfildServices01/fila-atendimento/internal/timezone"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates carrega as páginas do painel com as funções auxiliares.
// tz é o fuso da clínica usado nos horários exibidos.
func Templates(tz string) (*template.Template, error) {
	loc := timezone.Location(tz)

	funcs := template.FuncMap{
		"placeholder": Placeholder,
		"queueURL":    QueueURL,
		"percent":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"clock": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.In(loc).Format("15:04:05")
		},
	}

	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

func Placeholder(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// QueueURL monta o link da fila preservando filtro e geração.
func QueueURL(procedure string, page int, generation uint64) string {
	q := url.Values{}
	if procedure != "" {
		q.Set("procedure", procedure)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if generation > 0 {
		q.Set("generation", strconv.FormatUint(generation, 10))
	}

	if len(q) == 0 {
		return "/web/queue"
	}
	return "/web/queue?" + q.Encode()
}
