package greenleaf

import (
	"github.com/a-h/templ"

	"leafdesk/frontend/shared/html"
)

var greenLeafTemplate = html.MustParse("green-leaf", `<section class="list">
  <div class="list-header">
    <h1>Green Leaf</h1>
    <div class="actions">
      <a class="button" href="{{.HistoryURL}}">Export history</a>
      <a class="button primary" href="{{.ExportURL}}">Export to Excel</a>
    </div>
  </div>
  <form method="get" action="/green-leaf" class="date-range">
    <label>Select From Date <input type="date" name="from" value="{{.From}}"></label>
    <label>Select To Date <input type="date" name="to" value="{{.To}}"></label>
    <button type="submit">Apply</button>
  </form>
  {{- if .LoadFailed}}
  <p class="muted">Green leaf records are unavailable right now.</p>
  {{- end}}
  <table>
    <thead>
      <tr>
        {{- with .IDHeader}}
        <th><a href="{{.URL}}"{{if .Active}} class="sorted-{{.Dir}}"{{end}}>{{.Label}}</a></th>
        {{- end}}
        <th>Date</th>
        <th>Supplier</th>
        <th>No of Sacks</th>
        <th>Total (Kg)</th>
        <th>Sacks Weight</th>
        <th>Water Weight</th>
        <th>Net Weight (Kg)</th>
        <th>Status</th>
        <th>Action</th>
      </tr>
    </thead>
    <tbody>
      {{- range .Rows}}
      <tr>
        <td>{{.TrNo}}</td>
        <td>{{.Date}}</td>
        <td>{{.Supplier}}</td>
        <td>{{.NoofSacks}}</td>
        <td class="num">{{.TotalKg}}</td>
        <td class="num">{{.SacksWeight}}</td>
        <td class="num">{{.Water}}</td>
        <td class="num">{{.NetQty}}</td>
        <td><span class="dot {{if .Complete}}dot-green{{else}}dot-red{{end}}" title="{{if .Complete}}Complete{{else}}Pending{{end}}"></span></td>
        <td class="actions"><a href="{{.ViewURL}}">View</a> <a href="{{.SlipURL}}" target="_blank">Slip</a></td>
      </tr>
      {{- else}}
      <tr><td colspan="10" class="empty">No data available</td></tr>
      {{- end}}
    </tbody>
  </table>
  <div class="pager">
    <span>{{.Filtered}} records, net {{.NetTotal}} kg</span>
    <span class="pages">{{range .Pages}}{{if .Current}}<strong>{{.Label}}</strong>{{else}}<a href="{{.URL}}">{{.Label}}</a>{{end}} {{end}}</span>
    <span class="sizes">Entries per page: {{range .SizeLinks}}{{if .Current}}<strong>{{.Label}}</strong>{{else}}<a href="{{.URL}}">{{.Label}}</a>{{end}} {{end}}</span>
  </div>
</section>
{{- with .Dialog}}
<div class="dialog-backdrop">
  <div class="dialog" role="dialog" aria-modal="true" aria-labelledby="dialog-title">
    <header>
      <h2 id="dialog-title"><span class="dot {{if .Complete}}dot-green{{else}}dot-red{{end}}"></span>{{.Title}}</h2>
      <a class="close" href="{{.CloseURL}}" aria-label="Close">&times;</a>
    </header>
    <ol class="detail">
      {{- range .Detail}}
      <li><span class="label">{{.Label}}</span><span class="value">{{.Value}}</span></li>
      {{- end}}
    </ol>
    <div class="dialog-actions">
      <a class="button" href="{{.SlipURL}}" target="_blank">Print slip</a>
      <a class="button" href="{{.CloseURL}}">Close</a>
    </div>
  </div>
</div>
{{- end}}`)

// GreenLeafPage renders the green-leaf report inside the app layout.
func GreenLeafPage(page html.Page, data GreenLeafPageData) templ.Component {
	page.Body = html.Template(greenLeafTemplate, data)
	return html.Layout(page)
}
