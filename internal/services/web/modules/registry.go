package modules

import (
	module "github.com/louisbranch/userdesk/internal/services/web/module"
	"github.com/louisbranch/userdesk/internal/services/web/modules/registration"
	"github.com/louisbranch/userdesk/internal/services/web/modules/userlist"
)

// DefaultModules returns the web modules in mount order.
func DefaultModules(deps module.Dependencies) []Module {
	return []Module{
		registration.New(deps),
		userlist.New(deps),
	}
}

// Close releases background resources held by modules that own any.
func Close(mods []Module) {
	for _, m := range mods {
		if closer, ok := m.(module.Closer); ok {
			closer.Close()
		}
	}
}
