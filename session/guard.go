package session

const (
	RouteSignIn   = "sign-in"
	RouteRegister = "register"
)

// DefaultPublicRoutes are reachable without a token.
var DefaultPublicRoutes = []string{RouteSignIn, RouteRegister}

// Decision is the outcome of a guard check for one navigation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard decides on token presence alone. It cannot tell a stale token from a
// valid one; the API rejects those at request time.
type Guard struct {
	public map[string]struct{}
}

func NewGuard(publicRoutes ...string) *Guard {
	if len(publicRoutes) == 0 {
		publicRoutes = DefaultPublicRoutes
	}
	public := make(map[string]struct{}, len(publicRoutes))
	for _, route := range publicRoutes {
		public[route] = struct{}{}
	}
	return &Guard{public: public}
}

func (g *Guard) IsPublic(route string) bool {
	_, ok := g.public[route]
	return ok
}

// Check runs on every navigation. Public routes are always allowed, even for
// an authenticated session.
func (g *Guard) Check(route string, authenticated bool) Decision {
	if g.IsPublic(route) || authenticated {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: RouteSignIn}
}
