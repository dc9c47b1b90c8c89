package app

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/frontend/shared/html"
	"leafdesk/frontend/shared/nav"
	"leafdesk/infrastructure/apiclient"
	"leafdesk/infrastructure/audit"
	"leafdesk/infrastructure/cache"
	"leafdesk/infrastructure/session"
	"leafdesk/infrastructure/sqlite"
)

// Deps are the collaborators shared by the authenticated screens.
type Deps struct {
	API       *apiclient.Client
	DB        *sqlite.DB
	Sessions  *session.Store
	Audit     *audit.Service
	Factories *cache.FactoryCache
	Location  *time.Location
}

// Loc returns the display location, defaulting to time.Local.
func (d *Deps) Loc() *time.Location {
	if d == nil || d.Location == nil {
		return time.Local
	}
	return d.Location
}

// Nav builds the top navigation for the current request from cached data only.
func (d *Deps) Nav(r *http.Request) *nav.TopNavData {
	sess, _ := sessioncontext.GetSessionFromContext(r.Context())
	factoryName := ""
	if d.Factories != nil {
		if f, ok := d.Factories.Get(sessioncontext.FactoryID(r.Context())); ok {
			factoryName = f.Name
		}
	}
	data := nav.BuildTopNavData(sess, factoryName, r.URL.Path)
	return &data
}

// Page completes p with the top navigation and, when p has none, the notice
// carried in the request URL.
func (d *Deps) Page(r *http.Request, p html.Page) html.Page {
	p.Nav = d.Nav(r)
	if p.Notice.Empty() {
		p.Notice = html.NoticeFromRequest(r)
	}
	return p
}

// HandleUnauthorized ends the session and sends the user to the login screen
// when err is a 401 from the remote API. It reports whether it did so.
func (d *Deps) HandleUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	msg := apiclient.ErrorMessage(err)
	if msg == "" {
		msg = "Your session has expired. Please log in again."
	}
	secure := false
	if sess, ok := sessioncontext.GetSessionFromContext(r.Context()); ok && d.Sessions != nil {
		secure = d.Sessions.SecureCookie
		if delErr := d.Sessions.Delete(r.Context(), sess.ID); delErr != nil {
			slog.Error("cannot delete session after 401", slog.String("session_id", sess.ID), slog.Any("err", delErr))
		}
	}
	http.SetCookie(w, session.ClearCookie(secure))
	http.Redirect(w, r, "/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
	return true
}
