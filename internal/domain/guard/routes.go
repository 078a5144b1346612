// Package guard decides, per navigation, whether a page may render given the
// visitor's session. It has no I/O.
package guard

import (
	"strings"

	"github.com/target/banksim-ui/internal/domain/auth"
)

// Well-known locations.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Route describes one page: its path, whether it needs a session, and the
// role it additionally requires, if any.
type Route struct {
	Path         string
	RequiresAuth bool
	RequiredRole auth.Role
}

// Routes is the static page table.
var Routes = []Route{
	{Path: "/login"},
	{Path: "/signup"},
	{Path: "/", RequiresAuth: true},
	{Path: "/accounts", RequiresAuth: true},
	{Path: "/transactions", RequiresAuth: true},
	{Path: "/profile", RequiresAuth: true},
	{Path: "/admin/customers", RequiresAuth: true, RequiredRole: auth.RoleAdmin},
	{Path: "/admin/accounts", RequiresAuth: true, RequiredRole: auth.RoleAdmin},
	{Path: "/admin/transactions", RequiresAuth: true, RequiredRole: auth.RoleAdmin},
}

// Lookup returns the route whose path equals p or is a path-segment prefix of it.
// The longest match wins so sub-paths like /accounts/close inherit /accounts.
func Lookup(p string) (Route, bool) {
	var (
		best  Route
		found bool
	)
	for _, r := range Routes {
		if !matches(r.Path, p) {
			continue
		}
		if !found || len(r.Path) > len(best.Path) {
			best, found = r, true
		}
	}
	return best, found
}

func matches(routePath, p string) bool {
	if routePath == HomePath {
		return p == HomePath
	}
	return p == routePath || strings.HasPrefix(p, routePath+"/")
}
