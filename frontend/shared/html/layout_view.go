package html

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"leafdesk/frontend/shared/nav"
)

// Page is the outer frame of every screen. A nil Nav renders the guest layout.
type Page struct {
	Title  string
	Nav    *nav.TopNavData
	Notice Notice
	// Alert is a blocking message shown before the user can continue.
	Alert string
	Body  templ.Component
}

var layoutTemplate = MustParse("layout", `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | LeafDesk</title>
<link rel="stylesheet" href="/assets/app.css">
</head>
<body class="{{if .Nav}}app{{else}}guest{{end}}">
{{- with .Nav}}
<header class="topnav">
  <a class="brand" href="/">LeafDesk{{with .FactoryName}} <small>{{.}}</small>{{end}}</a>
  <nav>
    {{- range .Links}}
    <a href="{{.Href}}"{{if .Active}} class="active" aria-current="page"{{end}}>{{.Label}}</a>
    {{- end}}
  </nav>
  <form method="post" action="/logout" class="logout">
    <span class="user">{{.UserName}}</span>
    <button type="submit">Log out</button>
  </form>
</header>
{{- end}}
{{- if not .Notice.Empty}}
<div class="toast toast-{{.Notice.Level}}" role="status">{{.Notice.Message}}</div>
{{- end}}
{{- with .Alert}}
<div class="alert" role="alert">{{.}}</div>
<script>window.addEventListener("load", function () { window.alert({{.}}); });</script>
{{- end}}
<main class="{{if .Nav}}content{{else}}guest-card{{end}}">
{{.Body}}
</main>
{{.CSRF}}
</body>
</html>`)

type layoutData struct {
	Page
	Body template.HTML
	CSRF template.HTML
}

// Layout renders p inside the shared frame.
func Layout(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body, err := Fragment(ctx, p.Body)
		if err != nil {
			return err
		}
		return layoutTemplate.Execute(w, layoutData{Page: p, Body: body, CSRF: CSRFFormScript()})
	})
}
