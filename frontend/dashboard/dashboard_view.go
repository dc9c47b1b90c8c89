package dashboard

import (
	"github.com/a-h/templ"

	"leafdesk/frontend/shared/html"
)

var dashboardTemplate = html.MustParse("dashboard", `<section class="dashboard">
  <h1>Welcome{{with .UserName}}, {{.}}{{end}}</h1>
  <p class="muted">{{with .FactoryName}}{{.}} · {{end}}{{.Today}}</p>
  <div class="tiles">
    {{- range .Tiles}}
    <a class="tile" href="{{.Href}}">
      <span class="tile-value">{{.Value}}</span>
      <span class="tile-label">{{.Label}}</span>
    </a>
    {{- end}}
  </div>
</section>`)

func DashboardPage(page html.Page, data PageData) templ.Component {
	page.Body = html.Template(dashboardTemplate, data)
	return html.Layout(page)
}
