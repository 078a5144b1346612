package guard

import "github.com/target/banksim-ui/internal/domain/auth"

// AuthState is the first gate's state.
type AuthState string

const (
	Pending         AuthState = "PENDING"
	Unauthenticated AuthState = "UNAUTHENTICATED"
	Authenticated   AuthState = "AUTHENTICATED"
)

// AuthzState is the second gate's state. It is only meaningful when the
// first gate is Authenticated.
type AuthzState string

const (
	AuthzNotEvaluated AuthzState = ""
	Authorized        AuthzState = "AUTHORIZED"
	Unauthorized      AuthzState = "UNAUTHORIZED"
)

// Outcome is what the caller must do.
type Outcome int

const (
	// Render the requested page.
	Render Outcome = iota
	// Loading means render a neutral loading indicator, no redirect.
	Loading
	// Redirect to Decision.Location.
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating both gates for one navigation.
type Decision struct {
	Auth     AuthState
	Authz    AuthzState
	Outcome  Outcome
	Location string
}

// AuthStateOf classifies a session snapshot.
func AuthStateOf(s auth.Session) AuthState {
	switch {
	case s.Loading:
		return Pending
	case s.Identity == nil:
		return Unauthenticated
	default:
		return Authenticated
	}
}

// Evaluate runs the authentication gate and then, for authenticated sessions,
// the authorization gate. Public routes always render. The attempted
// destination is not carried to the login page, and a role mismatch redirects
// home without any message.
func Evaluate(r Route, s auth.Session) Decision {
	if !r.RequiresAuth {
		return Decision{Auth: AuthStateOf(s), Outcome: Render}
	}

	switch st := AuthStateOf(s); st {
	case Pending:
		return Decision{Auth: st, Outcome: Loading}
	case Unauthenticated:
		return Decision{Auth: st, Outcome: Redirect, Location: LoginPath}
	default:
		if r.RequiredRole != "" && s.Identity.Role != r.RequiredRole {
			return Decision{Auth: st, Authz: Unauthorized, Outcome: Redirect, Location: HomePath}
		}
		return Decision{Auth: st, Authz: Authorized, Outcome: Render}
	}
}
