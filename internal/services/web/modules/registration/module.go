// Package registration serves the user registration form.
package registration

import (
	"net/http"

	module "github.com/louisbranch/userdesk/internal/services/web/module"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

// Module provides the registration form routes. It also answers every path
// no other module claims with the not-found page.
type Module struct {
	gateway RegistrationGateway
	deps    module.Dependencies
	states  *viewstate.Store[formState]
}

// New returns a registration module backed by the users API client in deps.
func New(deps module.Dependencies) Module {
	return NewWithGateway(NewAPIGateway(deps.UsersClient), deps)
}

// NewWithGateway returns a registration module with an explicit gateway.
func NewWithGateway(gateway RegistrationGateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{
		gateway: gateway,
		deps:    deps,
		states:  viewstate.New[formState](deps.ViewTTL, nil),
	}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "registration" }

// Healthy reports whether the registration module has a working gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires registration route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.gateway, m.states), m.deps)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

// Close stops the view state janitor.
func (m Module) Close() {
	if m.states != nil {
		m.states.Close()
	}
}
