package html

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// Funcs are available to every page template.
var Funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// MustParse parses a named page template with the shared funcs.
func MustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(Funcs).Parse(text))
}

// Template wraps an html/template execution as a templ component.
func Template(t *template.Template, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.Execute(w, data)
	})
}

// Fragment renders a component to trusted HTML for embedding in another template.
func Fragment(ctx context.Context, c templ.Component) (template.HTML, error) {
	if c == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Render writes c with the given status. The component is rendered into a
// buffer first so a template error still yields a clean 500.
func Render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		slog.Error("render page failed", slog.String("path", r.URL.Path), slog.Any("err", err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
