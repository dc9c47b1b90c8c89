package exports

import (
	"github.com/a-h/templ"

	"leafdesk/frontend/shared/html"
)

var exportsTemplate = html.MustParse("exports", `<section class="list">
  <div class="list-header">
    <h1>Export history</h1>
    <a class="button" href="/green-leaf">Back to Green Leaf</a>
  </div>
  <table>
    <thead>
      <tr><th>When</th><th>Export</th><th>From</th><th>To</th><th>Rows</th><th>File</th><th></th></tr>
    </thead>
    <tbody>
      {{- range .Runs}}
      <tr>
        <td>{{.CreatedAt}}</td>
        <td>{{.Type}}</td>
        <td>{{.From}}</td>
        <td>{{.To}}</td>
        <td class="num">{{.RowCount}}</td>
        <td>{{.FileName}}</td>
        <td>{{with .AgainURL}}<a href="{{.}}">Download again</a>{{end}}</td>
      </tr>
      {{- else}}
      <tr><td colspan="7" class="empty">{{if .LoadFailed}}Export history is unavailable right now.{{else}}No exports yet.{{end}}</td></tr>
      {{- end}}
    </tbody>
  </table>
</section>`)

func ExportsPage(page html.Page, data PageData) templ.Component {
	page.Body = html.Template(exportsTemplate, data)
	return html.Layout(page)
}
