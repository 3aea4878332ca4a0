// Package router maps the session state to the routes a user may open.
//
// Everything here is pure: Guard and Allowed only look at their arguments.
package router

import "github.com/dmitrijs2005/afteryou/internal/client/models"

type Kind int

const (
	KindLoading Kind = iota
	KindAnonymous
	KindAuthenticated
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindAnonymous:
		return "anonymous"
	case KindAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// State is the session variant: Loading, Anonymous or Authenticated(user).
// The zero value is Loading.
type State struct {
	kind Kind
	user models.User
}

func Loading() State   { return State{kind: KindLoading} }
func Anonymous() State { return State{kind: KindAnonymous} }

func Authenticated(u models.User) State {
	return State{kind: KindAuthenticated, user: u}
}

func (s State) Kind() Kind { return s.kind }

// User returns the signed-in user; ok is false unless s is Authenticated.
func (s State) User() (u models.User, ok bool) {
	if s.kind != KindAuthenticated {
		return models.User{}, false
	}
	return s.user, true
}

func (s State) IsAuthenticated() bool { return s.kind == KindAuthenticated }
