package login

import "leafdesk/frontend/shared/html"

const (
	msgUserNameRequired = "Username is required"
	msgPasswordRequired = "Password is required"
	msgInvalidLogin     = "Invalid username or password"
	msgLoginFailed      = "An error occurred"
	msgSessionFailed    = "Failed to create session. Please try again."
)

// LoginScreenData feeds the login form.
type LoginScreenData struct {
	UserName      string
	UserNameError string
	PasswordError string
	Notice        html.Notice
}

func (d LoginScreenData) HasErrors() bool {
	return d.UserNameError != "" || d.PasswordError != ""
}
