package session

import (
	"strings"

	"github.com/rvnspnz/artbid/internal/models"
)

const (
	adminPrefix  = "/admin"
	sellerPrefix = "/seller"
	adminHome    = "/admin/dashboard"
	sellerHome   = "/seller/dashboard"
	loginPath    = "/login"
	signupPath   = "/signup"
	homePath     = "/"
)

// publicPaths are reachable by any role. A path matches a prefix p when it
// equals p or sits under p + "/".
var publicPaths = []string{"/", "/auctions", "/artists", "/about", "/faqs", "/artwork", "/artist"}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Route is the routing guard: given the resolved role and the current path
// it decides the forced navigation target, if any. All redirects are
// history-replacing. The function is idempotent: applying it to its own
// target yields no further redirect.
//
// Policy:
//   - ADMIN outside the admin area is sent to the admin dashboard.
//   - SELLER outside the seller and admin areas, and off the public
//     allow-list, is sent to the seller dashboard.
//   - CUSTOMER on the login or signup page is sent home.
func Route(role models.Role, path string) (string, bool) {
	switch {
	case role == models.RoleAdmin && !strings.HasPrefix(path, adminPrefix):
		return adminHome, true
	case role == models.RoleSeller &&
		!strings.HasPrefix(path, sellerPrefix) &&
		!strings.HasPrefix(path, adminPrefix) &&
		!isPublicPath(path):
		return sellerHome, true
	case role == models.RoleCustomer && (path == loginPath || path == signupPath):
		return homePath, true
	}
	return "", false
}
