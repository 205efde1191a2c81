package loginflow

import "fmt"

// Route is a path on the portal web app
type Route string

const (
	RouteTwoFactor        Route = "/two-factor"
	RouteDoctorDashboard  Route = "/doctor-dashboard"
	RouteAdminDashboard   Route = "/admin-dashboard"
	RoutePatientDashboard Route = "/patient-dashboard"
	RouteForgotPassword   Route = "/forgot-password"
	RouteRegister         Route = "/register"
	RouteAdminLogin       Route = "/admin-login"
)

// Roles returned by the authentication service
const (
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
	RolePatient = "patient"
)

var dashboards = map[string]Route{
	RoleDoctor:  RouteDoctorDashboard,
	RoleAdmin:   RouteAdminDashboard,
	RolePatient: RoutePatientDashboard,
}

// RouteForRole returns the dashboard a role lands on.
// Unknown and empty roles get the patient dashboard.
func RouteForRole(role string) Route {
	if route, ok := dashboards[role]; ok {
		return route
	}
	return RoutePatientDashboard
}

// links are the secondary pages reachable from the login form
var links = map[string]Route{
	"forgot-password": RouteForgotPassword,
	"register":        RouteRegister,
	"admin-login":     RouteAdminLogin,
}

// LinkNames lists the page links accepted by ParseLink, in display order
func LinkNames() []string {
	return []string{"forgot-password", "register", "admin-login"}
}

// ParseLink resolves a page link name such as "register" to its route
func ParseLink(name string) (Route, error) {
	route, ok := links[name]
	if !ok {
		return "", fmt.Errorf("unknown page '%s', must be one of: forgot-password, register, admin-login", name)
	}
	return route, nil
}

// Navigation is a request for the Router to move to a page.
// Email is only set for the two-factor page, which needs it as context.
type Navigation struct {
	Route Route
	Email string
}
