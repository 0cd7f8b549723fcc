package app

import (
	"fmt"
	"strings"

	"contact_keeper/internal/client/state"
)

type Route string

const (
	RouteHome     Route = "home"
	RouteAbout    Route = "about"
	RouteLogin    Route = "login"
	RouteRegister Route = "register"
)

func ParseRoute(s string) (Route, error) {
	switch r := Route(strings.ToLower(strings.TrimSpace(s))); r {
	case RouteHome, RouteAbout, RouteLogin, RouteRegister:
		return r, nil
	case "":
		return RouteHome, nil
	default:
		return "", fmt.Errorf("unknown route %q", s)
	}
}

// Protected routes need a confirmed user.
func (r Route) Protected() bool {
	return r == RouteHome
}

// Resolve decides what to render when want is requested.
// ok is false while a token is still being confirmed; nothing protected is shown then.
func Resolve(want Route, auth state.AuthState) (route Route, ok bool) {
	switch {
	case want.Protected() && auth.Status == state.LoggedOut:
		return RouteLogin, true
	case want.Protected() && auth.Status == state.Pending:
		return want, false
	case (want == RouteLogin || want == RouteRegister) && auth.Status == state.LoggedIn:
		return RouteHome, true
	default:
		return want, true
	}
}

// Greeting is the navbar text for auth
func Greeting(auth state.AuthState) string {
	if auth.Status != state.LoggedIn || auth.User == nil {
		return ""
	}
	return "Hello " + auth.User.Name
}
