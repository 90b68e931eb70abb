package view

import "strings"

const (
	RouteRegister = "register"
	RouteQuery    = "query"
	RouteAbout    = "about"
)

var routes = []string{RouteRegister, RouteQuery, RouteAbout}

// NormalizeRoute maps route to a known view. Unknown and empty routes
// resolve to register with ok false so callers can redirect.
func NormalizeRoute(route string) (string, bool) {
	route = strings.ToLower(strings.Trim(route, "/# "))
	for _, known := range routes {
		if route == known {
			return known, true
		}
	}
	return RouteRegister, false
}
