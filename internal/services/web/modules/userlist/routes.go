package userlist

import (
	"net/http"

	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	readOnly := httpx.MethodNotAllowed("GET, HEAD")
	mux.HandleFunc(http.MethodGet+" "+routepath.Users, h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.UsersPrefix+"{$}", h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.UserDetailPattern, h.handleDetail)
	mux.HandleFunc(routepath.Users, readOnly)
	mux.HandleFunc(routepath.UsersPrefix+"{$}", readOnly)
	mux.HandleFunc(routepath.UserDetailPattern, readOnly)
	mux.HandleFunc(routepath.UsersPrefix, h.handleNotFound)
}
