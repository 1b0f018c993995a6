// Package modulehandler provides a composable base for web module handlers.
//
// Modules share handler infrastructure for localization, page rendering and
// error handling. Modules embed Base rather than duplicating it.
package modulehandler

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	module "github.com/louisbranch/userdesk/internal/services/web/module"
	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	platformi18n "github.com/louisbranch/userdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/userdesk/internal/services/web/platform/pagerender"
	"github.com/louisbranch/userdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/userdesk/internal/services/web/platform/weberror"
	"golang.org/x/text/message"
)

// Base carries the shared request-scoped resolvers used by module handlers.
type Base struct {
	resolveLanguage module.ResolveLanguage
	policy          requestmeta.SchemePolicy
	logger          *log.Logger
}

// NewBase builds a handler base from module dependencies.
func NewBase(deps module.Dependencies) Base {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return Base{
		resolveLanguage: deps.ResolveLanguage,
		policy:          deps.SchemePolicy,
		logger:          logger,
	}
}

// ResolveRequestLanguage returns the effective request language.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.resolveLanguage == nil {
		return ""
	}
	return b.resolveLanguage(r)
}

// RequestSchemePolicy returns the proxy trust policy.
func (b Base) RequestSchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// Logger returns the module logger.
func (b Base) Logger() *log.Logger {
	if b.logger == nil {
		return log.Default()
	}
	return b.logger
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	return platformi18n.ResolveLocalizer(w, r, b.resolveLanguage)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	b.Logger().Printf("module error method=%s path=%s request_id=%s err=%v", requestMethod(r), requestPath(r), httpx.RequestIDFrom(r), err)
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders the 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, "", b)
}

// WritePage renders a full module page with the given title key and fragment.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, titleKey string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		TitleKey:   titleKey,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}

func requestMethod(r *http.Request) string {
	if r == nil {
		return "-"
	}
	return r.Method
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return "-"
	}
	return r.URL.Path
}
