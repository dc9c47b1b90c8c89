package nav

import (
	"strings"

	"leafdesk/models"
)

// Link is one entry of the top navigation.
type Link struct {
	Href   string
	Label  string
	Active bool
}

// TopNavData is shared with page renderers.
type TopNavData struct {
	UserName    string
	FactoryName string
	Links       []Link
}

var sections = []Link{
	{Href: "/", Label: "Dashboard"},
	{Href: "/suppliers", Label: "Suppliers"},
	{Href: "/factory", Label: "Factory"},
	{Href: "/green-leaf", Label: "Green Leaf"},
}

// BuildTopNavData marks the section that owns currentPath as active.
func BuildTopNavData(session models.Session, factoryName, currentPath string) TopNavData {
	links := make([]Link, len(sections))
	for i, l := range sections {
		l.Active = isActive(l.Href, currentPath)
		links[i] = l
	}
	return TopNavData{
		UserName:    session.User.UserName,
		FactoryName: factoryName,
		Links:       links,
	}
}

func isActive(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}
