package navigation

import "github.com/odo-hq/expensys/internal/domain"

// Well-known paths.
const (
	LoginPath  = "/login"
	SignupPath = "/signup"
	HomePath   = "/"
)

// Route pairs a path with the minimum role allowed to render it.
type Route struct {
	Path         string
	RequiredRole domain.Role
	Public       bool
}

var routes = []Route{
	{Path: LoginPath, Public: true},
	{Path: SignupPath, Public: true},
	{Path: HomePath, RequiredRole: domain.RoleEmployee},
	{Path: "/employee/dashboard", RequiredRole: domain.RoleEmployee},
	{Path: "/employee/submit", RequiredRole: domain.RoleEmployee},
	{Path: "/employee/history", RequiredRole: domain.RoleEmployee},
	{Path: "/manager/dashboard", RequiredRole: domain.RoleManager},
	{Path: "/admin/dashboard", RequiredRole: domain.RoleAdmin},
	{Path: "/admin/users", RequiredRole: domain.RoleAdmin},
}

func lookup(path string) (Route, bool) {
	for _, route := range routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// DefaultRouteFor returns the landing view for a role.
func DefaultRouteFor(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleManager:
		return "/manager/dashboard"
	default:
		return "/employee/dashboard"
	}
}
