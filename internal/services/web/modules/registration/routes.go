package registration

import (
	"net/http"

	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Root+"{$}", h.handleSubmit)
	mux.HandleFunc(routepath.Root+"{$}", httpx.MethodNotAllowed("GET, HEAD, POST"))
	mux.HandleFunc(routepath.Root, h.handleNotFound)
}
