package navigation

import "github.com/odo-hq/expensys/internal/domain"

// Outcome enumerates gate verdicts.
type Outcome string

const (
	// OutcomeAllow renders the requested view.
	OutcomeAllow Outcome = "ALLOW"
	// OutcomeRedirect sends the actor to Decision.Target instead.
	OutcomeRedirect Outcome = "REDIRECT"
	// OutcomeHold renders a neutral placeholder until restoration settles.
	OutcomeHold Outcome = "HOLD"
)

// Decision is the gate's verdict for one navigation attempt.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Authorize decides whether the requested path may render for the given
// session. It runs on every navigation attempt and is never cached, because
// the session can change between attempts.
func Authorize(path string, session domain.Session) Decision {
	switch session.Phase {
	case domain.SessionRestoring:
		// Nothing gated renders until restoration settles. Redirecting here
		// would flash the login view at an actor whose session is about to
		// come back.
		return Decision{Outcome: OutcomeHold}

	case domain.SessionAuthenticated:
		if path == HomePath {
			return Decision{Outcome: OutcomeRedirect, Target: DefaultRouteFor(session.Role)}
		}
		route, known := lookup(path)
		if !known {
			return Decision{Outcome: OutcomeRedirect, Target: DefaultRouteFor(session.Role)}
		}
		if route.Public {
			return Decision{Outcome: OutcomeAllow}
		}
		if !session.Role.AtLeast(route.RequiredRole) {
			return Decision{Outcome: OutcomeRedirect, Target: DefaultRouteFor(session.Role)}
		}
		return Decision{Outcome: OutcomeAllow}

	default:
		if route, known := lookup(path); known && route.Public {
			return Decision{Outcome: OutcomeAllow}
		}
		return Decision{Outcome: OutcomeRedirect, Target: LoginPath}
	}
}
