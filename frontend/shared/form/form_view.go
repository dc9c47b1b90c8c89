package form

import (
	"html/template"

	"github.com/a-h/templ"

	"leafdesk/frontend/shared/html"
)

type fieldView struct {
	Field
	Value string
	Error string
}

var fieldsTemplate = html.MustParse("fields", `<div class="form-grid">
{{- range .}}
  <div class="field{{if .Error}} has-error{{end}}">
    {{- if eq .Type "radio"}}
    <span class="label">{{.Label}}</span>
    <div class="radio-group">
      {{- $f := .}}
      {{- range .Options}}
      <label><input type="radio" name="{{$f.Name}}" value="{{.Value}}"{{if eq .Value $f.Value}} checked{{end}}{{if $f.ReadOnly}} disabled{{end}}> {{.Label}}</label>
      {{- end}}
    </div>
    {{- else}}
    <label for="f-{{.Name}}">{{.Label}}</label>
    <input id="f-{{.Name}}" name="{{.Name}}" type="{{if .Numeric}}text{{else}}{{.Type}}{{end}}" value="{{.Value}}"
      {{- with .Placeholder}} placeholder="{{.}}"{{end}}
      {{- if .Numeric}} inputmode="numeric" data-numeric="{{.NumericMessage}}"{{end}}
      {{- if .ReadOnly}} readonly{{end}}>
    {{- end}}
    <p class="field-error" data-error-for="{{.Name}}">{{.Error}}</p>
  </div>
{{- end}}
</div>`)

// Fields renders every field of d with its current value and error.
func Fields(d *Draft) templ.Component {
	views := make([]fieldView, 0, len(d.Fields))
	for _, f := range d.Fields {
		views = append(views, fieldView{Field: f, Value: d.Values[f.Name], Error: d.Errors[f.Name]})
	}
	return html.Template(fieldsTemplate, views)
}

// NumericGuardScript rejects non-digit keystrokes in data-numeric inputs and
// shows the field's message, mirroring Draft.Set.
func NumericGuardScript() template.HTML {
	return template.HTML(`<script>
(function () {
  document.querySelectorAll("input[data-numeric]").forEach(function (input) {
    var last = input.value;
    input.addEventListener("input", function () {
      var slot = document.querySelector("[data-error-for='" + input.name + "']");
      if (/^[0-9]*$/.test(input.value)) {
        last = input.value;
        if (slot) slot.textContent = "";
        return;
      }
      input.value = last;
      if (slot) slot.textContent = input.getAttribute("data-numeric") || "Please enter numbers only.";
    });
  });
})();
</script>`)
}
