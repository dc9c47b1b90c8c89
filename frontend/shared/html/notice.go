package html

import (
	"net/http"
	"net/url"
	"strings"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
)

// Notice is a toast shown once after a redirect or alongside a page.
type Notice struct {
	Level   string
	Message string
}

func (n Notice) Empty() bool { return n.Message == "" }

// NoticeFromRequest reads the notice carried in the query string.
func NoticeFromRequest(r *http.Request) Notice {
	q := r.URL.Query()
	if msg := q.Get("error"); msg != "" {
		return Notice{Level: LevelError, Message: msg}
	}
	level := q.Get("level")
	switch level {
	case LevelSuccess, LevelError, LevelWarning:
	default:
		level = LevelSuccess
	}
	return Notice{Level: level, Message: q.Get("notice")}
}

// WithNotice appends a notice to target, keeping target's own query.
func WithNotice(target string, n Notice) string {
	if n.Empty() {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + "notice=" + url.QueryEscape(n.Message) + "&level=" + url.QueryEscape(n.Level)
}

// RedirectWithNotice sends a 303 to target carrying the notice.
func RedirectWithNotice(w http.ResponseWriter, r *http.Request, target string, n Notice) {
	http.Redirect(w, r, WithNotice(target, n), http.StatusSeeOther)
}
