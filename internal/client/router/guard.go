package router

type Decision int

const (
	Allow Decision = iota
	Wait
	RedirectLogin
	RedirectDashboard
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Wait:
		return "wait"
	case RedirectLogin:
		return "redirect:/login"
	case RedirectDashboard:
		return "redirect:/dashboard"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Guard decides whether r may be shown in state s. Nothing but open routes
// renders while the session is still loading.
func Guard(s State, r Route) Decision {
	if r.Access == Open {
		return Allow
	}
	if s.Kind() == KindLoading {
		return Wait
	}

	user, signedIn := s.User()
	switch r.Access {
	case PublicOnly:
		if signedIn {
			return RedirectDashboard
		}
		return Allow
	case Protected:
		if !signedIn {
			return RedirectLogin
		}
		return Allow
	case Admin:
		if !signedIn {
			return RedirectLogin
		}
		if !user.IsAdmin() {
			return Forbidden
		}
		return Allow
	}
	return Forbidden
}

// Allowed lists the routes Guard admits in state s.
func Allowed(s State) []Route {
	var out []Route
	for _, r := range Routes {
		if Guard(s, r) == Allow {
			out = append(out, r)
		}
	}
	return out
}
