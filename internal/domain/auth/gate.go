package auth

// Application paths the route gate redirects between.
const (
	LoginPath     = "/login"
	InventoryPath = "/inventory"
	AdminPath     = "/admin"
)

// Requirement is the access level a protected view needs.
type Requirement int

const (
	// RequireSession admits any session carrying an access token.
	RequireSession Requirement = iota
	// RequireAdmin additionally requires the admin flag.
	RequireAdmin
)

// Decision is the gate's verdict for one navigation.
// RedirectTo is empty when Allow is true.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide evaluates the route gate for a navigation needing req.
// No session or no access token always leads to the login page; a session without
// the admin flag asking for an admin view is sent to the inventory instead.
func Decide(s *Session, req Requirement) Decision {
	if s == nil || !s.HasToken() {
		return Decision{RedirectTo: LoginPath}
	}
	if req == RequireAdmin && !s.Admin() {
		return Decision{RedirectTo: InventoryPath}
	}
	return Decision{Allow: true}
}

// LandingPath returns the first view shown after login.
func LandingPath(isAdmin bool) string {
	if isAdmin {
		return AdminPath
	}
	return InventoryPath
}
