// Package session derives which navigation graph the current session may
// reach.
package session

import (
	"sync"

	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/store"
)

// Route names a top-level navigation root.
type Route string

const (
	RouteLoading          Route = "loading"
	RouteUnauthenticated  Route = "unauthenticated"
	RouteCustomerHome     Route = "customer_home"
	RouteProfessionalHome Route = "professional_home"
)

// ResolveRoute picks the single reachable root for an auth slice. It looks
// at nothing but auth and remembers nothing between calls.
func ResolveRoute(auth store.AuthState) Route {
	if auth.IsLoading {
		return RouteLoading
	}
	if auth.User == nil {
		return RouteUnauthenticated
	}
	switch auth.User.Role() {
	case domain.RoleCustomer:
		return RouteCustomerHome
	case domain.RoleProfessional, domain.RoleAdmin:
		return RouteProfessionalHome
	default:
		// a user without a role payload cannot enter either role graph
		return RouteUnauthenticated
	}
}

// Reachable reports whether route may be entered from auth. Exactly one
// route is reachable for any auth slice.
func Reachable(auth store.AuthState, route Route) bool {
	return ResolveRoute(auth) == route
}

// Graph lists the screens of a route's navigator. The core knows nothing
// about screens beyond this selection.
func Graph(route Route) []string {
	switch route {
	case RouteUnauthenticated:
		return []string{"Login", "SignUp"}
	case RouteCustomerHome:
		return []string{"Home", "Jobs", "Chat", "Profile", "CreateJob", "SelectService", "JobDetails"}
	case RouteProfessionalHome:
		return []string{"JobFeed", "MyJobs", "Chat", "Profile", "JobDetails"}
	default:
		return nil
	}
}

// Resolver recomputes the route on every store change and calls OnChange
// when the result differs from the previous notification. The stored route
// is used only to suppress duplicate notifications; resolution itself is
// always computed from the latest snapshot.
type Resolver struct {
	mu       sync.Mutex
	last     Route
	onChange func(from, to Route)
}

// NewResolver builds a Resolver.
func NewResolver(onChange func(from, to Route)) *Resolver {
	return &Resolver{onChange: onChange}
}

// Attach subscribes the resolver to st and returns the unsubscribe func.
func (r *Resolver) Attach(st *store.Store) func() {
	r.observe(st.State())
	return st.Subscribe(func(_ store.Action, _, next *store.State) {
		r.observe(next)
	})
}

// Current resolves the route from a snapshot.
func (r *Resolver) Current(s *store.State) Route {
	if s == nil {
		return RouteUnauthenticated
	}
	return ResolveRoute(s.Auth)
}

func (r *Resolver) observe(s *store.State) {
	route := r.Current(s)
	r.mu.Lock()
	prev := r.last
	r.last = route
	r.mu.Unlock()
	if prev != route && r.onChange != nil {
		r.onChange(prev, route)
	}
}
