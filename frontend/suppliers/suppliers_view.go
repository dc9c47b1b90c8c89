package suppliers

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"leafdesk/frontend/shared/form"
	"leafdesk/frontend/shared/html"
)

var suppliersTemplate = html.MustParse("suppliers", `{{- if not .ListHidden}}
<section class="list">
  <div class="list-header">
    <h1>Suppliers</h1>
    <a class="button primary" href="{{.CreateURL}}">Add Supplier</a>
  </div>
  <form method="get" action="/suppliers" class="search">
    <input type="search" name="q" value="{{.Query}}" placeholder="Search by code, name or branch code">
    <button type="submit">Search</button>
  </form>
  {{- if .LoadFailed}}
  <p class="muted">Supplier list is unavailable right now.</p>
  {{- end}}
  <table>
    <thead>
      <tr>
        {{- range .Headers}}
        <th><a href="{{.URL}}"{{if .Active}} class="sorted-{{.Dir}}"{{end}}>{{.Label}}</a></th>
        {{- end}}
        <th>Email</th>
        <th>Contact No</th>
        <th>Address</th>
        <th>Credit Limit</th>
        <th>Credit Period</th>
        <th>Status</th>
        <th>Action</th>
      </tr>
    </thead>
    <tbody>
      {{- range .Rows}}
      <tr>
        <td>{{.SupCode}}</td>
        <td>{{.SupName}}</td>
        <td>{{.ComName}}</td>
        <td>{{.Email}}</td>
        <td>{{.Telephone}}</td>
        <td>{{.Address1}}</td>
        <td>{{.CreditLimit}}</td>
        <td>{{.CreditPeriod}}</td>
        <td>{{if .Inactive}}<span class="badge badge-red">Inactive</span>{{else}}<span class="badge badge-green">Active</span>{{end}}</td>
        <td class="actions"><a href="{{.ViewURL}}">View</a> <a href="{{.EditURL}}">Edit</a></td>
      </tr>
      {{- else}}
      <tr><td colspan="10" class="empty">No suppliers found.</td></tr>
      {{- end}}
    </tbody>
  </table>
  <div class="pager">
    <span>{{.Filtered}} of {{.Total}}</span>
    <span class="pages">{{range .Pages}}{{if .Current}}<strong>{{.Label}}</strong>{{else}}<a href="{{.URL}}">{{.Label}}</a>{{end}} {{end}}</span>
    <span class="sizes">Rows per page: {{range .SizeLinks}}{{if .Current}}<strong>{{.Label}}</strong>{{else}}<a href="{{.URL}}">{{.Label}}</a>{{end}} {{end}}</span>
  </div>
</section>
{{- end}}
{{- with .Dialog}}
<div class="dialog-backdrop">
  <div class="dialog" role="dialog" aria-modal="true" aria-labelledby="dialog-title">
    <header>
      <h2 id="dialog-title">{{.Title}}</h2>
      <a class="close" href="{{.CloseURL}}" aria-label="Close">&times;</a>
    </header>
    {{- if eq .Kind "view"}}
    <p class="status"><span class="dot {{if .Inactive}}dot-red{{else}}dot-green{{end}}"></span>{{if .Inactive}}Inactive{{else}}Active{{end}}</p>
    <ol class="detail">
      {{- range .Detail}}
      <li><span class="label">{{.Label}}</span><span class="value">{{.Value}}</span></li>
      {{- end}}
    </ol>
    {{- else}}
    <form method="post" action="{{.Action}}" novalidate>
      {{$.FieldsHTML}}
      <div class="dialog-actions">
        <a class="button" href="{{.CloseURL}}">Cancel</a>
        <button type="submit" class="primary">{{if eq .Kind "create"}}Add Supplier{{else}}Save Changes{{end}}</button>
      </div>
    </form>
    {{$.NumericScript}}
    {{- end}}
  </div>
</div>
{{- end}}`)

type suppliersView struct {
	SuppliersPageData
	FieldsHTML    template.HTML
	NumericScript template.HTML
}

// SuppliersPage renders the supplier list screen inside the app layout.
func SuppliersPage(page html.Page, data SuppliersPageData) templ.Component {
	page.Body = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		view := suppliersView{SuppliersPageData: data}
		if data.Dialog != nil && data.Dialog.Draft != nil {
			fields, err := html.Fragment(ctx, form.Fields(data.Dialog.Draft))
			if err != nil {
				return err
			}
			view.FieldsHTML = fields
			view.NumericScript = form.NumericGuardScript()
		}
		return suppliersTemplate.Execute(w, view)
	})
	return html.Layout(page)
}
