package api

import "strings"

type navLink struct {
	Label  string
	Href   string
	Active bool
}

var navItems = []navLink{
	{Label: "Dashboard", Href: "/"},
	{Label: "Exercises", Href: "/exercises"},
	{Label: "Workouts", Href: "/workouts"},
	{Label: "Videos", Href: "/videos"},
	{Label: "Categories", Href: "/categories"},
	{Label: "Users", Href: "/users"},
}

// navActive reports whether href is the current section. "/" only matches itself.
func navActive(path, href string) bool {
	if path == href {
		return true
	}
	return href != "/" && strings.HasPrefix(path, href+"/")
}

func navFor(path string) []navLink {
	links := make([]navLink, len(navItems))
	for i, item := range navItems {
		item.Active = navActive(path, item.Href)
		links[i] = item
	}
	return links
}
