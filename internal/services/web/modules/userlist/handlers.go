package userlist

import (
	"net/http"

	module "github.com/louisbranch/userdesk/internal/services/web/module"
	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
	webtemplates "github.com/louisbranch/userdesk/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{Base: modulehandler.NewBase(deps), service: s}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	// A request without an instance cookie cannot have remembered pages, so it
	// gets a cookie for next time and throwaway state for this render.
	instanceID, ok := viewstate.ExistingID(r)
	if !ok {
		viewstate.InstanceID(w, r, h.RequestSchemePolicy())
	}
	query := parseListQuery(r.URL.Query(), h.service.pageSize)
	view, err := h.service.load(httpx.RequestContext(r), instanceID, query)
	if err != nil {
		h.Logger().Printf("user listing fetch failed request_id=%s err=%v", httpx.RequestIDFrom(r), err)
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, "users.title", http.StatusOK, webtemplates.UserList(view, loc))
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.detail(httpx.RequestContext(r), r.PathValue("userID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, "users.detail_title", http.StatusOK, webtemplates.UserDetail(view, loc))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
