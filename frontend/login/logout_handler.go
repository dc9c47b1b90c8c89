package login

import (
	"log/slog"
	"net/http"

	sessioncookie "leafdesk/infrastructure/session"
)

// LogoutHandler removes session state and clears cookie.
func LogoutHandler(sessions *sessioncookie.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			if err := sessions.Delete(r.Context(), cookie.Value); err != nil {
				slog.Error("cannot delete session", slog.Any("err", err))
			}
		}
		http.SetCookie(w, sessioncookie.ClearCookie(sessions.SecureCookie))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
