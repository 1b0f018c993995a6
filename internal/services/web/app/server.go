package app

import (
	"log"
	"net/http"
	"time"

	webi18n "github.com/louisbranch/userdesk/internal/services/web/i18n"
	module "github.com/louisbranch/userdesk/internal/services/web/module"
	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
)

const defaultPageSize = 5

// ResolveDependencies fills the request resolvers and defaults modules rely
// on when the caller left them unset.
func ResolveDependencies(deps module.Dependencies) module.Dependencies {
	if deps.ResolveLanguage == nil {
		deps.ResolveLanguage = webi18n.ResolveLanguage
	}
	if deps.PageSize <= 0 {
		deps.PageSize = defaultPageSize
	}
	if deps.DisplayLocation == nil {
		deps.DisplayLocation = time.Local
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return deps
}

// BuildRootHandler composes a root mux from the configured modules.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	return Compose(ComposeInput{Modules: cfg.Modules})
}

// HealthHandler answers "ok" while every module reporting health is healthy
// and 503 otherwise.
func HealthHandler(mods []module.Module) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for _, m := range mods {
			reporter, ok := m.(module.HealthReporter)
			if ok && !reporter.Healthy() {
				_ = httpx.WriteText(w, http.StatusServiceUnavailable, "unavailable: "+m.ID())
				return
			}
		}
		_ = httpx.WriteText(w, http.StatusOK, "ok")
	})
}
