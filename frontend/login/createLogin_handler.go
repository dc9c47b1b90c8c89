package login

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"leafdesk/frontend/shared/html"
	"leafdesk/infrastructure/apiclient"
	sessioncookie "leafdesk/infrastructure/session"
)

// CreateLoginHandler authenticates against the remote API and issues a session cookie.
func CreateLoginHandler(api *apiclient.Client, sessions *sessioncookie.Store, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		data := LoginScreenData{UserName: r.FormValue("userName")}
		password := r.FormValue("password")
		if data.UserName == "" {
			data.UserNameError = msgUserNameRequired
		}
		if password == "" {
			data.PasswordError = msgPasswordRequired
		}
		if data.HasErrors() {
			html.Render(w, r, http.StatusUnprocessableEntity, GetLoginScreen(data))
			return
		}

		user, err := api.Login(r.Context(), data.UserName, password)
		if err != nil {
			http.Redirect(w, r, "/login?error="+url.QueryEscape(loginErrorMessage(err)), http.StatusSeeOther)
			return
		}

		session, err := establishSession(r.Context(), sessions, user, ttl)
		if err != nil {
			slog.Error("persist session failed", slog.String("user", user.UserName), slog.Any("err", err))
			http.Redirect(w, r, "/login?error="+url.QueryEscape(msgSessionFailed), http.StatusSeeOther)
			return
		}

		slog.Info("user logged in", slog.String("user", user.UserName), slog.String("factory_id", session.FactoryID))
		http.SetCookie(w, sessioncookie.CookieFor(session.ID, session.ExpiresAt, sessions.SecureCookie))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// loginErrorMessage prefers the server's own text, then a status-specific default.
func loginErrorMessage(err error) string {
	if msg := apiclient.ErrorMessage(err); msg != "" {
		return msg
	}
	if apiclient.IsUnauthorized(err) {
		return msgInvalidLogin
	}
	return msgLoginFailed
}
