package login

import (
	"net/http"

	"leafdesk/frontend/shared/html"
	sessioncookie "leafdesk/infrastructure/session"
)

// GetLoginScreenHandler renders the login screen, or sends a signed-in user home.
func GetLoginScreenHandler(sessions *sessioncookie.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redirectSignedIn(w, r, sessions) {
			return
		}
		html.Render(w, r, http.StatusOK, GetLoginScreen(LoginScreenData{Notice: html.NoticeFromRequest(r)}))
	}
}

// GetSignupScreenHandler renders the signup notice for guests.
func GetSignupScreenHandler(sessions *sessioncookie.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redirectSignedIn(w, r, sessions) {
			return
		}
		html.Render(w, r, http.StatusOK, GetSignupScreen())
	}
}

// redirectSignedIn sends the browser to / when the cookie names a live session.
func redirectSignedIn(w http.ResponseWriter, r *http.Request, sessions *sessioncookie.Store) bool {
	if sessions == nil {
		return false
	}
	cookie, err := r.Cookie(sessioncookie.CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	if _, err := sessions.Load(r.Context(), cookie.Value); err != nil {
		return false
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return true
}
