// Package userlist serves the searchable, paginated user listing and the
// user detail page.
package userlist

import (
	"net/http"

	module "github.com/louisbranch/userdesk/internal/services/web/module"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

// Module provides user listing routes.
type Module struct {
	gateway UserListGateway
	deps    module.Dependencies
	states  *viewstate.Store[listState]
}

// New returns a listing module backed by the users API client in deps.
func New(deps module.Dependencies) Module {
	return NewWithGateway(NewAPIGateway(deps.UsersClient), deps)
}

// NewWithGateway returns a listing module with an explicit gateway.
func NewWithGateway(gateway UserListGateway, deps module.Dependencies) Module {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return Module{
		gateway: gateway,
		deps:    deps,
		states:  viewstate.New[listState](deps.ViewTTL, nil),
	}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "userlist" }

// Healthy reports whether the listing module has a working gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires listing route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway, m.states, m.deps.PageSize, m.deps.DisplayLocation)
	registerRoutes(mux, newHandlers(svc, m.deps))
	return module.Mount{Prefix: routepath.UsersPrefix, Handler: mux}, nil
}

// Close stops the view state janitor.
func (m Module) Close() {
	if m.states != nil {
		m.states.Close()
	}
}
