// Package weberror renders shared error responses for web modules.
package weberror

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	platformi18n "github.com/louisbranch/userdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/userdesk/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/userdesk/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc platformi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if key := apperrors.LocalizationKey(err); key != "" {
		if localized := platformi18n.Message(loc, key, ""); localized != "" {
			return localized
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes a localized error page. detailKey optionally replaces
// the generic message.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, detailKey string, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	loc, _ := platformi18n.ResolveLocalizer(nil, r, resolveLanguage(resolver))
	err := pagerender.WriteModulePage(w, r, resolver, pagerender.ModulePage{
		TitleKey:   webtemplates.ErrorPageTitleKey(statusCode),
		StatusCode: statusCode,
		Fragment:   webtemplates.ErrorState(statusCode, strings.TrimSpace(detailKey), loc),
	})
	if err != nil {
		log.Printf("render error page failed status=%d request_id=%s err=%v", statusCode, httpx.RequestIDFrom(r), err)
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes a module-safe localized error response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, apperrors.LocalizationKey(err), resolver)
		return
	}
	loc, _ := platformi18n.ResolveLocalizer(nil, r, resolveLanguage(resolver))
	http.Error(w, PublicMessage(loc, err), statusCode)
}

func resolveLanguage(resolver pagerender.RequestResolver) func(*http.Request) string {
	if resolver == nil {
		return nil
	}
	return resolver.ResolveRequestLanguage
}
