package registration

import (
	"net/http"

	module "github.com/louisbranch/userdesk/internal/services/web/module"
	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/userdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/userdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/userdesk/internal/services/web/templates"
)

const maxFormBytes = 16 << 10

type handlers struct {
	modulehandler.Base
	service service
	limiter module.Limiter
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{
		Base:    modulehandler.NewBase(deps),
		service: s,
		limiter: deps.SubmitLimiter,
	}
}

func (h handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	instanceID := viewstate.InstanceID(w, r, h.RequestSchemePolicy())
	h.writeForm(w, r, http.StatusOK, h.service.view(instanceID))
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	policy := h.RequestSchemePolicy()
	if !requestmeta.HasSameOriginProof(r, policy) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.writeForm(w, r, http.StatusBadRequest, webtemplates.RegistrationView{Error: "registration.error.invalid_form"})
		return
	}
	draft := Draft{Username: r.PostFormValue("username"), Age: r.PostFormValue("age")}

	if h.limiter != nil && !h.limiter.Allow(requestmeta.ClientIP(r, policy)) {
		h.writeForm(w, r, http.StatusTooManyRequests, webtemplates.RegistrationView{
			Username: draft.Username,
			Age:      draft.Age,
			Error:    "error.too_many_requests",
		})
		return
	}

	instanceID := viewstate.InstanceID(w, r, policy)
	err := h.service.submit(httpx.RequestContext(r), instanceID, draft)
	if err == nil {
		flash.Write(w, r, flash.NoticeSuccess("registration.success"), policy)
		httpx.WriteSeeOther(w, r, routepath.Root)
		return
	}

	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger().Printf("registration submit failed request_id=%s status=%d err=%v", httpx.RequestIDFrom(r), status, err)
	}
	view := h.service.view(instanceID)
	if apperrors.KindOf(err) == apperrors.KindConflict {
		view.Error = apperrors.LocalizationKey(err)
	}
	h.writeForm(w, r, status, view)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func (h handlers) writeForm(w http.ResponseWriter, r *http.Request, status int, view webtemplates.RegistrationView) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, "registration.title", status, webtemplates.RegistrationForm(view, loc))
}
