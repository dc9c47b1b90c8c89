package nav

import (
	"testing"

	"leafdesk/models"
)

func TestBuildTopNavDataMarksActiveSection(t *testing.T) {
	sess := models.Session{User: models.User{UserName: "nimal"}}
	data := BuildTopNavData(sess, "Hill Top", "/green-leaf/12/slip.pdf")

	if data.UserName != "nimal" || data.FactoryName != "Hill Top" {
		t.Fatalf("unexpected nav data: %+v", data)
	}
	active := ""
	for _, l := range data.Links {
		if l.Active {
			if active != "" {
				t.Fatalf("more than one active link: %s and %s", active, l.Href)
			}
			active = l.Href
		}
	}
	if active != "/green-leaf" {
		t.Fatalf("expected /green-leaf active, got %q", active)
	}

	home := BuildTopNavData(sess, "", "/")
	if !home.Links[0].Active || home.Links[1].Active {
		t.Fatalf("expected only dashboard active on /")
	}
}
