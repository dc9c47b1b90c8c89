package login

import (
	"github.com/a-h/templ"

	"leafdesk/frontend/shared/html"
)

var loginTemplate = html.MustParse("login", `<section class="auth">
  <h1>Sign in</h1>
  <form method="post" action="/login" novalidate>
    <div class="field{{if .UserNameError}} has-error{{end}}">
      <label for="userName">Username</label>
      <input id="userName" name="userName" type="text" value="{{.UserName}}" autocomplete="username" autofocus>
      <p class="field-error">{{.UserNameError}}</p>
    </div>
    <div class="field{{if .PasswordError}} has-error{{end}}">
      <label for="password">Password</label>
      <input id="password" name="password" type="password" autocomplete="current-password">
      <p class="field-error">{{.PasswordError}}</p>
    </div>
    <button type="submit" class="primary">Log in</button>
  </form>
  <p class="muted">No account? <a href="/signup">Sign up</a></p>
</section>`)

// GetLoginScreen renders the login form inside the guest layout.
func GetLoginScreen(data LoginScreenData) templ.Component {
	return html.Layout(html.Page{
		Title:  "Login",
		Notice: data.Notice,
		Body:   html.Template(loginTemplate, data),
	})
}

var signupTemplate = html.MustParse("signup", `<section class="auth">
  <h1>Create an account</h1>
  <p>Accounts are provisioned by your factory administrator. Ask them to create a user for you, then sign in.</p>
  <p><a class="button" href="/login">Back to login</a></p>
</section>`)

// GetSignupScreen renders the signup notice inside the guest layout.
func GetSignupScreen() templ.Component {
	return html.Layout(html.Page{
		Title: "Sign up",
		Body:  html.Template(signupTemplate, nil),
	})
}
