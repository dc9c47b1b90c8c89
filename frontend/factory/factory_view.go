package factory

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"leafdesk/frontend/shared/form"
	"leafdesk/frontend/shared/html"
)

var factoryTemplate = html.MustParse("factory", `<section class="card">
  <h1>Factory Details</h1>
  {{- if .Unavailable}}
  <p class="muted">Factory details are unavailable right now.</p>
  {{- end}}
  <form method="post" action="/factory" novalidate>
    {{.FieldsHTML}}
    <div class="form-actions">
      <button type="submit" class="primary">Change Factory Details</button>
    </div>
  </form>
  {{.NumericScript}}
</section>`)

type factoryView struct {
	FactoryPageData
	FieldsHTML    template.HTML
	NumericScript template.HTML
}

func FactoryPage(page html.Page, data FactoryPageData) templ.Component {
	page.Body = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fields, err := html.Fragment(ctx, form.Fields(data.Draft))
		if err != nil {
			return err
		}
		return factoryTemplate.Execute(w, factoryView{
			FactoryPageData: data,
			FieldsHTML:      fields,
			NumericScript:   form.NumericGuardScript(),
		})
	})
	return html.Layout(page)
}
