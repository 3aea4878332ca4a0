package router

import (
	"strings"
)

// Access is the audience of a route.
type Access int

const (
	// Open routes are reachable in any state, e.g. token links.
	Open Access = iota
	// PublicOnly routes are for signed-out users.
	PublicOnly
	// Protected routes need a session.
	Protected
	// Admin routes need a session with the admin role.
	Admin
)

type Route struct {
	Pattern string
	Access  Access
}

var (
	Login           = Route{"/login", PublicOnly}
	Register        = Route{"/register", PublicOnly}
	Dashboard       = Route{"/dashboard", Protected}
	Messages        = Route{"/messages", Protected}
	MessageCreate   = Route{"/messages/create", Protected}
	MessageDetail   = Route{"/messages/:id", Protected}
	MessageEdit     = Route{"/messages/:id/edit", Protected}
	Chains          = Route{"/chains", Protected}
	Settings        = Route{"/settings", Protected}
	DigitalLocker   = Route{"/digital-locker", Protected}
	System          = Route{"/system", Admin}
	InheritanceLink = Route{"/inheritance/:token", Open}
	ChainLink       = Route{"/chain/:token", Open}
)

// Routes lists every route in menu order.
var Routes = []Route{
	Login, Register,
	Dashboard, Messages, MessageCreate, MessageDetail, MessageEdit,
	Chains, Settings, DigitalLocker, System,
	InheritanceLink, ChainLink,
}

// Match resolves a concrete path such as /messages/42/edit to its route.
func Match(path string) (Route, bool) {
	if path == "/" {
		return Dashboard, true
	}
	parts := split(path)
	for _, r := range Routes {
		if matches(split(r.Pattern), parts) {
			return r, true
		}
	}
	return Route{}, false
}

// Params returns the values of the :name segments of path under r.
// The caller has matched path to r.
func (r Route) Params(path string) map[string]string {
	params := map[string]string{}
	parts := split(path)
	for i, seg := range split(r.Pattern) {
		if strings.HasPrefix(seg, ":") && i < len(parts) {
			params[seg[1:]] = parts[i]
		}
	}
	return params
}

func split(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func matches(pattern, parts []string) bool {
	if len(pattern) != len(parts) {
		return false
	}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if parts[i] == "" {
				return false
			}
			continue
		}
		if seg != parts[i] {
			return false
		}
	}
	return true
}
